// Command seed creates a demo shop with an owner and loyalty settings, then
// prints a bearer token for that owner.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"jewelbook/internal/auth"
	"jewelbook/internal/config"
	"jewelbook/internal/database"

	"github.com/google/uuid"
)

func main() {
	shopName := flag.String("shop", "Demo Jewellers", "shop name")
	plan := flag.String("plan", "free", "subscription plan")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	ownerID := uuid.New()
	var shopID uuid.UUID

	err = pool.QueryRow(ctx,
		`INSERT INTO shops (name, plan, gst_rate) VALUES ($1, $2, 3.00) RETURNING id`,
		*shopName, *plan,
	).Scan(&shopID)
	if err != nil {
		log.Fatalf("Failed to create shop: %v", err)
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO shop_members (shop_id, user_id, role) VALUES ($1, $2, 'owner')`,
		shopID, ownerID,
	); err != nil {
		log.Fatalf("Failed to add owner: %v", err)
	}

	// One point per 100 rupees, redeemable from 50 points
	if _, err := pool.Exec(ctx,
		`INSERT INTO loyalty_settings (shop_id, enabled, earning_type, flat_ratio, min_redemption_points)
		 VALUES ($1, TRUE, 'flat', 0.01, 50)`,
		shopID,
	); err != nil {
		log.Fatalf("Failed to configure loyalty: %v", err)
	}

	token, err := auth.New(cfg.Auth.JWTSecret, cfg.Auth.Issuer).IssueToken(ownerID, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Printf("shop:  %s\n", shopID)
	fmt.Printf("owner: %s\n", ownerID)
	fmt.Printf("token: %s\n", token)
}
