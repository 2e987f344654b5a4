package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// sendEach delivers to every recipient in turn. Partial failures are logged
// and reflected in the Delivery; an error is returned only when nobody was
// reached.
func sendEach(ctx context.Context, channel string, recipients []string, send func(ctx context.Context, to string) error) (Delivery, error) {
	if len(recipients) == 0 {
		return Delivery{}, ErrNoRecipients
	}

	d := Delivery{Total: len(recipients)}
	var errs []error
	for _, to := range recipients {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := send(ctx, to); err != nil {
			slog.Error("Failed to deliver message", "channel", channel, "recipient", mask(to), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", mask(to), err))
			continue
		}
		d.Sent++
	}
	if d.Sent == 0 {
		return d, errors.Join(errs...)
	}
	return d, nil
}

// mask hides all but the last four characters of a phone number.
func mask(s string) string {
	if len(s) <= 4 {
		return s
	}
	return "***" + s[len(s)-4:]
}
