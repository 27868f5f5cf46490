package handler

import (
	"context"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/model"
	"github.com/noeul-sumini/travel-agent/tool"
)

const (
	plannerInstructions = "You are a travel planning expert. Create coherent, practical travel " +
		"plans: itineraries, activities and day-by-day schedules tailored to the traveler's request."
	calendarInstructions = "You are a travel scheduling expert. Help the traveler organize dates, " +
		"reminders and itinerary timing, and point out scheduling conflicts."
	weatherInstructions = "You are a travel weather expert. Interpret forecasts for the traveler's " +
		"destination and dates, and advise on packing and outdoor plans. Use the live data when present."
	mapsInstructions = "You are a local guide expert. Recommend places, restaurants and routes " +
		"around the traveler's destination. Use the live data when present."
	flightsInstructions = "You are a flight search expert. Help the traveler find and compare " +
		"flights, airports and connections. Use the live data when present."
	budgetInstructions = "You are a travel budget expert. Estimate costs, suggest how to allocate " +
		"spending across categories and flag savings opportunities."
)

// NewPlanner builds the general-purpose planning handler, the classifier's
// fallback when nothing more specific matches.
func NewPlanner(generator model.Generator, optFns ...func(o *Options)) core.Handler {
	return newBase(core.Planner, plannerInstructions, generator, nil, optFns...)
}

// NewCalendar builds the scheduling handler.
func NewCalendar(generator model.Generator, optFns ...func(o *Options)) core.Handler {
	return newBase(core.Calendar, calendarInstructions, generator, nil, optFns...)
}

// NewWeather builds the forecast handler. With a non-nil client it folds a
// live forecast for the request's location into the prompt.
func NewWeather(generator model.Generator, client *tool.WeatherClient, optFns ...func(o *Options)) core.Handler {
	var liveData liveDataFn
	if client != nil {
		liveData = func(ctx context.Context, req core.DispatchRequest) (map[string]any, error) {
			location := stringFromContext(req.Context, "destination")
			if location == "" {
				location = req.Content
			}
			return client.Forecast(ctx, location, stringFromContext(req.Context, "date"))
		}
	}
	return newBase(core.Weather, weatherInstructions, generator, liveData, optFns...)
}

// NewMaps builds the places handler. With a non-nil client it folds place
// search results into the prompt.
func NewMaps(generator model.Generator, client *tool.MapsClient, optFns ...func(o *Options)) core.Handler {
	var liveData liveDataFn
	if client != nil {
		liveData = func(ctx context.Context, req core.DispatchRequest) (map[string]any, error) {
			return client.Search(ctx, req.Content)
		}
	}
	return newBase(core.Maps, mapsInstructions, generator, liveData, optFns...)
}

// NewFlights builds the flight search handler. Live flight data requires
// origin and destination airport codes in the request context; without them
// the handler answers prompt-only.
func NewFlights(generator model.Generator, client *tool.FlightsClient, optFns ...func(o *Options)) core.Handler {
	var liveData liveDataFn
	if client != nil {
		liveData = func(ctx context.Context, req core.DispatchRequest) (map[string]any, error) {
			origin := stringFromContext(req.Context, "origin")
			destination := stringFromContext(req.Context, "destination_airport")
			if origin == "" || destination == "" {
				return nil, nil
			}
			return client.Search(ctx, origin, destination, stringFromContext(req.Context, "date"))
		}
	}
	return newBase(core.Flights, flightsInstructions, generator, liveData, optFns...)
}

// NewBudget builds the cost estimation handler.
func NewBudget(generator model.Generator, optFns ...func(o *Options)) core.Handler {
	return newBase(core.Budget, budgetInstructions, generator, nil, optFns...)
}

// All returns the full handler set without live-data clients, handy for
// tests and prompt-only deployments.
func All(generator model.Generator, optFns ...func(o *Options)) []core.Handler {
	return []core.Handler{
		NewPlanner(generator, optFns...),
		NewCalendar(generator, optFns...),
		NewWeather(generator, nil, optFns...),
		NewMaps(generator, nil, optFns...),
		NewFlights(generator, nil, optFns...),
		NewBudget(generator, optFns...),
	}
}
