package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"gymstudio/internal/config"
	"gymstudio/internal/database"
	"gymstudio/internal/modules/payment"
	"gymstudio/internal/repository"
)

// Orders younger than this are left alone; the customer may still be paying.
const orderGracePeriod = 30 * time.Minute

// Cron job that resolves payments stuck in created: the order went out to the
// gateway but no verification callback ever arrived. The gateway is the
// source of truth for these.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatal(err)
	}
	gwCfg, err := config.LoadGatewayConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	payRepo := repository.NewPaymentRepository(db)
	gateway := payment.NewHTTPGateway(gwCfg)

	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-orderGracePeriod)

	stale, err := payRepo.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		log.Fatalf("list stale payments failed: %v", err)
	}

	var paid, failed, skipped int
	for i := range stale {
		p := &stale[i]

		ord, err := gateway.FetchOrder(ctx, p.ProviderOrderID)
		if err != nil {
			log.Printf("reconcile fetch failed order_id=%s err=%v", p.ProviderOrderID, err)
			skipped++
			continue
		}

		switch ord.Status {
		case "paid":
			changed, err := payRepo.MarkPaidIdempotent(ctx, p.ProviderOrderID, ord.RawBody, time.Now().UTC())
			if err != nil {
				log.Printf("reconcile mark paid failed order_id=%s err=%v", p.ProviderOrderID, err)
				skipped++
				continue
			}
			if changed {
				res := db.Exec(
					`UPDATE event_registrations SET status = 'confirmed' WHERE payment_id = ? AND status = 'pending'`,
					p.ID,
				)
				if res.Error != nil {
					log.Printf("reconcile confirm registration failed payment_id=%d err=%v", p.ID, res.Error)
				}
			}
			paid++
		case "created", "attempted":
			// Still open on the gateway side; check again next run.
			skipped++
		default:
			if err := payRepo.MarkFailed(ctx, p.ProviderOrderID, ord.RawBody, "reconciled as "+ord.Status); err != nil {
				log.Printf("reconcile mark failed failed order_id=%s err=%v", p.ProviderOrderID, err)
				skipped++
				continue
			}
			res := db.Exec(
				`UPDATE event_registrations SET status = 'failed' WHERE payment_id = ? AND status = 'pending'`,
				p.ID,
			)
			if res.Error != nil {
				log.Printf("reconcile fail registration failed payment_id=%d err=%v", p.ID, res.Error)
			}
			failed++
		}
	}

	log.Printf("reconcile completed: stale=%d paid=%d failed=%d skipped=%d", len(stale), paid, failed, skipped)
}
