// Package notify delivers processed weeks to the league's channels.
package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/omarshaarawi/skinsbot/internal/metrics"
)

// Delivery counts how many recipients of a channel were reached.
type Delivery struct {
	Sent  int
	Total int
}

func (d Delivery) OK() bool {
	return d.Total > 0 && d.Sent == d.Total
}

func (d Delivery) String() string {
	return fmt.Sprintf("%d/%d", d.Sent, d.Total)
}

type Notifier interface {
	Name() string
	Configured() bool
	// Preview renders what Send would deliver.
	Preview(p Payload) string
	Send(ctx context.Context, p Payload) (Delivery, error)
	SendTest(ctx context.Context) (Delivery, error)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AutoConfirm approves every send. Used by unattended runs.
var AutoConfirm = ConfirmFunc(func(string) bool { return true })

// PromptConfirmer asks on out and reads a y/N answer from in.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *PromptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "\n🤔 %s (y/N): ", prompt)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

type Dispatcher struct {
	channels map[string]Notifier
	confirm  Confirmer
	out      io.Writer
	metrics  *metrics.Metrics
}

func NewDispatcher(confirm Confirmer, out io.Writer, m *metrics.Metrics, notifiers ...Notifier) *Dispatcher {
	d := &Dispatcher{
		channels: make(map[string]Notifier, len(notifiers)),
		confirm:  confirm,
		out:      out,
		metrics:  m,
	}
	for _, n := range notifiers {
		d.channels[n.Name()] = n
	}
	return d
}

// Channels lists every registered channel name, sorted.
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))
	for name := range d.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Configured lists the channels that have credentials.
func (d *Dispatcher) Configured() []string {
	var names []string
	for _, name := range d.Channels() {
		if d.channels[name].Configured() {
			names = append(names, name)
		}
	}
	return names
}

func (d *Dispatcher) lookup(channel string) (Notifier, error) {
	n, ok := d.channels[channel]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownChannel, channel, strings.Join(d.Channels(), ", "))
	}
	if !n.Configured() {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, channel)
	}
	return n, nil
}

// Dispatch previews the message, asks for confirmation and sends it. A
// declined confirmation returns ErrCancelled.
func (d *Dispatcher) Dispatch(ctx context.Context, channel string, p Payload) (Delivery, error) {
	n, err := d.lookup(channel)
	if err != nil {
		return Delivery{}, err
	}

	fmt.Fprintf(d.out, "📱 Sending %s notification...\n📝 Message preview:\n%s\n%s\n%s\n",
		channel, strings.Repeat("-", 40), n.Preview(p), strings.Repeat("-", 40))

	if !d.confirm.Confirm(fmt.Sprintf("Send this message to %s?", channel)) {
		fmt.Fprintln(d.out, "❌ Message sending cancelled.")
		return Delivery{}, ErrCancelled
	}

	delivery, err := n.Send(ctx, p)
	d.metrics.NotificationDelivered(channel, err == nil && delivery.OK())
	if err != nil {
		slog.Error("Failed to send notification", "channel", channel, "error", err)
		return delivery, fmt.Errorf("error sending %s notification: %w", channel, err)
	}
	fmt.Fprintf(d.out, "📊 %s sent to %s recipients\n", channel, delivery)
	return delivery, nil
}

// DispatchAll sends to every configured channel, continuing past failures.
func (d *Dispatcher) DispatchAll(ctx context.Context, p Payload) map[string]Delivery {
	results := make(map[string]Delivery)
	for _, name := range d.Configured() {
		delivery, err := d.Dispatch(ctx, name, p)
		if err != nil {
			slog.Warn("Channel delivery incomplete", "channel", name, "delivery", delivery.String(), "error", err)
		}
		results[name] = delivery
	}
	return results
}

func (d *Dispatcher) Test(ctx context.Context, channel string) (Delivery, error) {
	n, err := d.lookup(channel)
	if err != nil {
		return Delivery{}, err
	}
	delivery, err := n.SendTest(ctx)
	d.metrics.NotificationDelivered(channel, err == nil && delivery.OK())
	if err != nil {
		return delivery, fmt.Errorf("error sending %s test message: %w", channel, err)
	}
	return delivery, nil
}
