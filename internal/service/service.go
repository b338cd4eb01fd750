package service

import (
	"errors"
	"fmt"
	"time"

	"hilanderia-pos/internal/repository"
	"hilanderia-pos/pkg/apperr"
	"hilanderia-pos/pkg/validator"
)

// Notifier pushes live updates to dashboard clients. *ws.Hub satisfies it.
type Notifier interface {
	Publish(msgType, action string, data interface{}, text string)
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, string, interface{}, string) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

const msgStockUpdate = "stock_update"

// translate maps repository errors onto the apperr taxonomy. Errors that are
// already classified pass through untouched.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.ErrNotFound.With(entity)
	case errors.Is(err, repository.ErrStockConflict):
		return apperr.ErrInsufficientStock.With(entity)
	default:
		return apperr.Store(err)
	}
}

// validate runs the struct tags and reports the first failure.
func validate(req interface{}) error {
	return validateAs(req, nil)
}

// validateAs reports the first failed tag as the named error registered for
// it, or as a generic validation error when the tag has none.
func validateAs(req interface{}, named map[string]*apperr.Error) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	if e, ok := named[first.Tag]; ok {
		return e.With(first.FailedField)
	}
	return apperr.Invalid("Validation failed: Field '%s' failed on tag '%s'", first.FailedField, first.Tag)
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return "system"
	}
	return actor
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func rowError(row int, format string, args ...interface{}) error {
	return apperr.Invalid("row %d: %s", row, fmt.Sprintf(format, args...))
}
