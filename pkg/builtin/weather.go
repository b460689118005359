package builtin

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
)

var weatherConditions = []string{
	"Sunny",
	"Partly Cloudy",
	"Cloudy",
	"Rainy",
	"Clear",
	"Overcast",
}

// NewWeatherTool builds the weather lookup tool. It is deliberately not part
// of Tools(): it models a tool developed outside this module and registered
// on an already-initialized server via Server.RegisterTool, exercising the
// same path any external extension would take.
//
// The data is simulated. A deterministic per-city seed keeps repeated
// lookups for the same city consistent without any external API.
func NewWeatherTool() *primitives.Tool {
	return &primitives.Tool{
		Name:        "weather",
		Description: "Get current weather information for a city (simulated data)",
		InputSchema: schema.Object(map[string]*schema.Descriptor{
			"city": {
				Type:        schema.TypeString,
				Description: `City name (e.g., "New York", "London", "Tokyo")`,
				MinLength:   schema.Int(1),
			},
			"units": {
				Type:        schema.TypeString,
				Description: `Temperature units: "celsius" or "fahrenheit"`,
				Enum:        []interface{}{"celsius", "fahrenheit"},
				Default:     "celsius",
			},
		}, "city"),
		OutputSchema: schema.Object(map[string]*schema.Descriptor{
			"city":        {Type: schema.TypeString, Description: "City name"},
			"temperature": {Type: schema.TypeNumber, Description: "Current temperature"},
			"units":       {Type: schema.TypeString, Description: "Temperature units"},
			"condition":   {Type: schema.TypeString, Description: "Weather condition"},
			"humidity":    {Type: schema.TypeInteger, Description: "Humidity percentage"},
			"timestamp":   {Type: schema.TypeString, Description: "Timestamp of weather data"},
		}),
		Handler: fetchWeather,
	}
}

func fetchWeather(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	city, _ := params["city"].(string)
	city = strings.TrimSpace(city)
	units, _ := params["units"].(string)

	// minLength catches the empty string; whitespace-only still gets here.
	if city == "" {
		return nil, mcperrors.New(mcperrors.KindValidation, "City name is required").
			WithDetail("city", city)
	}

	return simulateWeather(city, units), nil
}

// simulateWeather derives stable conditions from the city name. The seed is
// the sum of the lowercased character codes, so "London" always reports the
// same temperature band and condition.
func simulateWeather(city, units string) map[string]interface{} {
	var seed int64
	for _, r := range strings.ToLower(city) {
		seed += int64(r)
	}
	rng := rand.New(rand.NewSource(seed))

	celsius := float64(10 + rng.Intn(21))
	temperature := celsius
	if units == "fahrenheit" {
		temperature = celsius*9/5 + 32
	}

	condition := weatherConditions[rng.Intn(len(weatherConditions))]
	humidity := 30 + rng.Intn(61)

	return map[string]interface{}{
		"city":        city,
		"temperature": math.Round(temperature*10) / 10,
		"units":       units,
		"condition":   condition,
		"humidity":    humidity,
		"timestamp":   time.Now().Format(time.RFC3339),
		"note":        "Simulated data for demo purposes",
	}
}
