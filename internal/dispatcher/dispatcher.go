package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/mailer"
	"github.com/sameer7300/Oraagh/internal/repository"
	"github.com/sameer7300/Oraagh/internal/service"
)

// StaleCartAge is how long a cart may sit untouched before the sweep
// opens an abandonment record for it.
const StaleCartAge = 30 * time.Minute

const (
	cartReminderSubject     = "Your Cart is Waiting - Oraagh"
	checkoutReminderSubject = "Complete Your Order - Oraagh"
)

// Result reports what a single dispatcher pass did.
type Result struct {
	CartReminders     int
	CheckoutReminders int
	RefreshedRecords  int
	Failures          int
}

// Dispatcher runs one reminder pass: cart-stage reminders, then
// checkout-stage reminders, then the stale-cart sweep. Per-record
// failures are logged and counted, never fatal to the pass.
type Dispatcher struct {
	abandoned repository.AbandonedCartStore
	carts     repository.CartStore
	products  repository.ProductStore
	users     repository.UserStore
	mailer    mailer.Mailer
	templates *mailer.TemplateSet
	site      mailer.Site
	dryRun    bool

	// now is swappable in tests
	now func() time.Time
}

func New(
	abandoned repository.AbandonedCartStore,
	carts repository.CartStore,
	products repository.ProductStore,
	users repository.UserStore,
	m mailer.Mailer,
	templates *mailer.TemplateSet,
	site mailer.Site,
	dryRun bool,
) *Dispatcher {
	return &Dispatcher{
		abandoned: abandoned,
		carts:     carts,
		products:  products,
		users:     users,
		mailer:    m,
		templates: templates,
		site:      site,
		dryRun:    dryRun,
		now:       time.Now,
	}
}

// Run executes one full pass. It returns an error only when a listing
// query fails; individual record failures are reflected in
// Result.Failures.
func (d *Dispatcher) Run(ctx context.Context) (Result, error) {
	var res Result

	if err := d.sendCartReminders(ctx, &res); err != nil {
		return res, err
	}
	if err := d.sendCheckoutReminders(ctx, &res); err != nil {
		return res, err
	}
	if err := d.refreshStaleCarts(ctx, &res); err != nil {
		return res, err
	}

	log.Printf("dispatcher pass done: %d cart reminders, %d checkout reminders, %d refreshed, %d failures (dry-run=%v)",
		res.CartReminders, res.CheckoutReminders, res.RefreshedRecords, res.Failures, d.dryRun)
	return res, nil
}

func (d *Dispatcher) sendCartReminders(ctx context.Context, res *Result) error {
	records, err := d.abandoned.ListPendingCartReminders(ctx)
	if err != nil {
		return fmt.Errorf("list pending cart reminders: %w", err)
	}

	now := d.now()
	for _, rec := range records {
		if !rec.ShouldSendCartReminder(now) {
			continue
		}
		if d.dryRun {
			log.Printf("[dry-run] would send cart reminder for user %d (idle %.1fh, total %s)",
				rec.UserID, rec.HoursSinceLastActivity(now), rec.CartTotal)
			res.CartReminders++
			continue
		}

		if err := d.sendReminder(ctx, rec, "abandoned_cart_reminder", cartReminderSubject); err != nil {
			log.Printf("cart reminder for user %d: %v", rec.UserID, err)
			res.Failures++
			continue
		}
		if err := d.abandoned.MarkCartReminderSent(ctx, rec.ID, now); err != nil {
			log.Printf("mark cart reminder sent for record %d: %v", rec.ID, err)
			res.Failures++
			continue
		}
		res.CartReminders++
	}
	return nil
}

func (d *Dispatcher) sendCheckoutReminders(ctx context.Context, res *Result) error {
	records, err := d.abandoned.ListPendingCheckoutReminders(ctx)
	if err != nil {
		return fmt.Errorf("list pending checkout reminders: %w", err)
	}

	now := d.now()
	for _, rec := range records {
		if !rec.ShouldSendCheckoutReminder(now) {
			continue
		}
		if d.dryRun {
			log.Printf("[dry-run] would send checkout reminder for user %d (total %s)",
				rec.UserID, rec.CartTotal)
			res.CheckoutReminders++
			continue
		}

		if err := d.sendReminder(ctx, rec, "abandoned_checkout_reminder", checkoutReminderSubject); err != nil {
			log.Printf("checkout reminder for user %d: %v", rec.UserID, err)
			res.Failures++
			continue
		}
		if err := d.abandoned.MarkCheckoutReminderSent(ctx, rec.ID, now); err != nil {
			log.Printf("mark checkout reminder sent for record %d: %v", rec.ID, err)
			res.Failures++
			continue
		}
		res.CheckoutReminders++
	}
	return nil
}

func (d *Dispatcher) sendReminder(ctx context.Context, rec *domain.AbandonedCart, template, subject string) error {
	user, err := d.users.GetUser(ctx, rec.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	items, err := d.renderableItems(ctx, rec.Snapshot)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		// every snapshot line points at a product that no longer
		// exists; nothing worth reminding about
		return errors.New("no renderable snapshot items")
	}

	data := mailer.ReminderData{
		Site:  d.site,
		User:  user,
		Items: items,
		Total: rec.CartTotal,
	}
	html, text, err := d.templates.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", template, err)
	}

	msg := &mailer.Message{
		To:      []string{user.Email},
		Subject: subject,
		Text:    text,
		HTML:    html,
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send to %s: %w", user.Email, err)
	}
	return nil
}

// renderableItems drops snapshot lines whose product has been deleted
// since capture. The stored snapshot itself is never rewritten.
func (d *Dispatcher) renderableItems(ctx context.Context, snapshot []domain.SnapshotItem) ([]domain.SnapshotItem, error) {
	items := make([]domain.SnapshotItem, 0, len(snapshot))
	for _, item := range snapshot {
		exists, err := d.products.ProductExists(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("check product %d: %w", item.ProductID, err)
		}
		if exists {
			items = append(items, item)
		}
	}
	return items, nil
}

// refreshStaleCarts opens or refreshes abandonment records for carts
// that have sat untouched for at least StaleCartAge. Existing records
// keep their stage; only the snapshot, total and activity time move.
func (d *Dispatcher) refreshStaleCarts(ctx context.Context, res *Result) error {
	cutoff := d.now().Add(-StaleCartAge)
	carts, err := d.carts.ListStaleCarts(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list stale carts: %w", err)
	}

	for _, cart := range carts {
		if cart.IsEmpty() {
			continue
		}
		if err := d.refreshRecord(ctx, cart); err != nil {
			log.Printf("refresh abandoned record for user %d: %v", cart.UserID, err)
			res.Failures++
			continue
		}
		res.RefreshedRecords++
	}
	return nil
}

func (d *Dispatcher) refreshRecord(ctx context.Context, cart *domain.Cart) error {
	snapshot, total := service.BuildSnapshot(cart)
	if len(snapshot) == 0 {
		return nil
	}

	if d.dryRun {
		log.Printf("[dry-run] would refresh abandoned record for user %d (total %s)", cart.UserID, total)
		return nil
	}

	rec, err := d.abandoned.GetUnrecovered(ctx, cart.UserID)
	if errors.Is(err, repository.ErrNoActiveRecord) {
		rec = &domain.AbandonedCart{
			UserID:         cart.UserID,
			Stage:          domain.StageCart,
			Snapshot:       snapshot,
			CartTotal:      total,
			CartCreatedAt:  cart.CreatedAt,
			LastActivityAt: cart.UpdatedAt,
		}
		return d.abandoned.Create(ctx, rec)
	}
	if err != nil {
		return err
	}

	rec.Snapshot = snapshot
	rec.CartTotal = total
	rec.LastActivityAt = cart.UpdatedAt
	return d.abandoned.Update(ctx, rec)
}
