package forecast

// Reading is a normalized snapshot of the weather relevant to plant care.
// It is constructed fresh per request or push cycle and never mutated.
type Reading struct {
	// Temperature is the daily maximum in degrees Celsius.
	Temperature float64
	// Humidity is the current relative humidity in percent.
	Humidity float64
	// UVIndex is the daily maximum UV index.
	UVIndex float64
	// WindSpeed is the strongest expected wind (gusts when available) in m/s.
	WindSpeed float64
	// PrecipProbability is the daily maximum precipitation probability in percent.
	PrecipProbability float64
	// PrecipSum is the expected precipitation total in millimeters.
	PrecipSum float64
	// DaytimeAvgHumidity averages the hourly humidity samples whose local
	// hour falls in [9,17].
	DaytimeAvgHumidity float64
}

// FallbackReading is the documented stand-in used when the provider is
// exhausted: a moderate day that still produces sensible advice.
func FallbackReading() Reading {
	return Reading{
		Temperature:        25,
		Humidity:           60,
		UVIndex:            5,
		WindSpeed:          10,
		PrecipProbability:  20,
		PrecipSum:          0,
		DaytimeAvgHumidity: 60,
	}
}
