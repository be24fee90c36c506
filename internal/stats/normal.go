package stats

import "gonum.org/v1/gonum/stat/distuv"

var unitNormal = distuv.Normal{Mu: 0, Sigma: 1}

// NormalCDF returns Φ(x) for the standard normal distribution.
func NormalCDF(x float64) float64 {
	return unitNormal.CDF(x)
}

// NormalQuantile returns Φ⁻¹(p), the inverse of NormalCDF.
func NormalQuantile(p float64) float64 {
	return unitNormal.Quantile(p)
}
