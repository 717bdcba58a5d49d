package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/chernoby/internal/reactor"
)

type column struct {
	name  string
	get   func(s *reactor.Stats) string
	parse func(s *reactor.Stats, v string) error
}

func intColumn(name string, field func(s *reactor.Stats) *int) column {
	return column{
		name: name,
		get:  func(s *reactor.Stats) string { return strconv.Itoa(*field(s)) },
		parse: func(s *reactor.Stats, v string) (err error) {
			*field(s), err = strconv.Atoi(v)
			return err
		},
	}
}

func floatColumn(name string, field func(s *reactor.Stats) *float64) column {
	return column{
		name: name,
		get:  func(s *reactor.Stats) string { return strconv.FormatFloat(*field(s), 'f', 6, 64) },
		parse: func(s *reactor.Stats, v string) (err error) {
			*field(s), err = strconv.ParseFloat(v, 64)
			return err
		},
	}
}

var columns = []column{
	intColumn("step", func(s *reactor.Stats) *int { return &s.Step }),
	floatColumn("time", func(s *reactor.Stats) *float64 { return &s.Time }),
	intColumn("particles", func(s *reactor.Stats) *int { return &s.Particles }),
	intColumn("atoms", func(s *reactor.Stats) *int { return &s.Atoms }),
	intColumn("neutrons", func(s *reactor.Stats) *int { return &s.Neutrons }),
	floatColumn("energy", func(s *reactor.Stats) *float64 { return &s.Energy }),
	intColumn("fissions", func(s *reactor.Stats) *int { return &s.Fissions }),
	intColumn("spontaneous", func(s *reactor.Stats) *int { return &s.Spontaneous }),
	intColumn("captures", func(s *reactor.Stats) *int { return &s.Captures }),
	intColumn("rod_absorbed", func(s *reactor.Stats) *int { return &s.RodAbsorbed }),
	intColumn("escaped", func(s *reactor.Stats) *int { return &s.Escaped }),
	intColumn("expired", func(s *reactor.Stats) *int { return &s.Expired }),
	intColumn("neutrons_born", func(s *reactor.Stats) *int { return &s.NeutronsBorn }),
	intColumn("neutrons_lost", func(s *reactor.Stats) *int { return &s.NeutronsLost }),
}

// Columns lists the stats.csv header.
func Columns() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// WriteStats writes a header row and one row per step.
func WriteStats(w io.Writer, stats []reactor.Stats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return err
	}

	row := make([]string, len(columns))
	for i := range stats {
		for j, c := range columns {
			row[j] = c.get(&stats[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadStats parses the output of WriteStats. Columns are matched by header
// name; unknown columns are ignored.
func ReadStats(r io.Reader) ([]reactor.Stats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: read stats: %w", err)
	}
	if len(records) < 2 {
		return []reactor.Stats{}, nil
	}

	byName := make(map[string]column, len(columns))
	for _, c := range columns {
		byName[c.name] = c
	}
	header := records[0]

	stats := make([]reactor.Stats, 0, len(records)-1)
	for i, record := range records[1:] {
		var st reactor.Stats
		for j, v := range record {
			if j >= len(header) {
				break
			}
			c, ok := byName[header[j]]
			if !ok {
				continue
			}
			if err := c.parse(&st, v); err != nil {
				return nil, fmt.Errorf("storage: row %d column %s: %w", i+1, c.name, err)
			}
		}
		stats = append(stats, st)
	}
	return stats, nil
}

type ExportData struct {
	RunMetadata
	Stats []reactor.Stats `json:"stats"`
}

func ExportJSON(w io.Writer, meta RunMetadata, stats []reactor.Stats) error {
	data := ExportData{
		RunMetadata: meta,
		Stats:       stats,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
