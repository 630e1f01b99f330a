package jobs

import (
	"log"
	"time"

	"gamevault-backend/model"

	"gorm.io/gorm"
)

// ExpireSubscriptions clears lapsed subscription plans. Runs daily.
func ExpireSubscriptions(db *gorm.DB) {
	res := db.Model(&model.User{}).
		Where("subscription_expires IS NOT NULL AND subscription_expires < ?", time.Now()).
		Updates(map[string]interface{}{
			"subscription_plan":    nil,
			"subscription_expires": nil,
		})
	if res.Error != nil {
		log.Printf("subscription expiry sweep failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("expired %d lapsed subscriptions", res.RowsAffected)
	}
}

func payoutPeriod(frequency string, now time.Time) time.Time {
	switch frequency {
	case "daily":
		return now.AddDate(0, 0, -1)
	case "monthly":
		return now.AddDate(0, -1, 0)
	default: // weekly
		return now.AddDate(0, 0, -7)
	}
}

// SweepPayouts enqueues a pending payout per active payment config for the
// settled, unrefunded payment volume of the config's period, net of
// commission. Skips configs whose volume is below the minimum payout and
// periods that already have a record.
func SweepPayouts(db *gorm.DB) {
	now := time.Now()

	configs := []model.PaymentConfig{}
	if err := db.Where("is_active = ?", true).Find(&configs).Error; err != nil {
		log.Printf("payout sweep: failed to load configs: %v", err)
		return
	}

	for i := range configs {
		cfg := &configs[i]
		periodStart := payoutPeriod(cfg.PayoutFrequency, now)

		var existing int64
		if err := db.Model(&model.PayoutRecord{}).
			Where("payment_config_id = ? AND period_end > ?", cfg.ID, periodStart).
			Count(&existing).Error; err != nil || existing > 0 {
			continue
		}

		var volume float64
		err := db.Model(&model.Payment{}).
			Where("payment_method = ? AND status = ? AND created_at >= ? AND created_at < ?",
				cfg.PaymentMethod, model.PaymentCompleted, periodStart, now).
			Select("COALESCE(SUM(amount), 0)").Scan(&volume).Error
		if err != nil {
			log.Printf("payout sweep: volume query failed for %s: %v", cfg.PaymentMethod, err)
			continue
		}

		net := volume * (1 - cfg.CommissionPercentage/100)
		if net < cfg.MinimumPayout {
			continue
		}

		payout := model.PayoutRecord{
			PaymentConfigID: cfg.ID,
			Amount:          net,
			Currency:        "USD",
			Status:          "pending",
			PayoutMethod:    cfg.PaymentMethod,
			PeriodStart:     periodStart,
			PeriodEnd:       now,
		}
		if err := db.Create(&payout).Error; err != nil {
			log.Printf("payout sweep: failed to create payout for %s: %v", cfg.PaymentMethod, err)
			continue
		}
		log.Printf("payout sweep: enqueued %.2f USD for %s", net, cfg.PaymentMethod)
	}
}
