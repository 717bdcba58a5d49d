// Package analysis characterises recorded reactor runs.
//
//   - [GrowthRate]: exponential growth rate of a series by log-linear fit
//   - [Classify]: subcritical, critical or supercritical from a rate
//   - [PowerSpectrum]: spectrum of a series' fluctuations
//
// # Criticality
//
// The neutron population of a chain reaction behaves like N(t) ~ exp(alpha t):
//
//	fit := analysis.GrowthRate(times, neutrons)
//	if analysis.Classify(fit.Rate, 0.01) == analysis.Supercritical {
//	    // population doubles every fit.DoublingTime()
//	}
package analysis
