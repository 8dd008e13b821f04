package inventory

import "reservation-engine/internal/pkg/errs"

var excursionTransitions = map[ExcursionStatus][]ExcursionStatus{
	ExcursionUpcoming: {ExcursionOngoing, ExcursionCancelled},
	ExcursionOngoing:  {ExcursionCompleted, ExcursionCancelled},
}

var flightTransitions = map[FlightStatus][]FlightStatus{
	FlightScheduled: {FlightDelayed, FlightDeparted, FlightCancelled},
	FlightDelayed:   {FlightDeparted, FlightCancelled},
	FlightDeparted:  {FlightLanded},
}

func ValidateExcursionTransition(from, to ExcursionStatus) error {
	if !to.IsValid() {
		return errs.Wrapf(errs.ErrValidation, "unknown excursion status %q", to)
	}
	for _, allowed := range excursionTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return errs.Wrapf(errs.ErrInvalidTransition, "excursion %s -> %s", from, to)
}

func ValidateFlightTransition(from, to FlightStatus) error {
	if !to.IsValid() {
		return errs.Wrapf(errs.ErrValidation, "unknown flight status %q", to)
	}
	for _, allowed := range flightTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return errs.Wrapf(errs.ErrInvalidTransition, "flight %s -> %s", from, to)
}
