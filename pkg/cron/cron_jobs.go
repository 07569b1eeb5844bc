package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"studyhive/pkg/utils"

	"github.com/robfig/cron/v3"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs daily at 8am: remind professors about pending invites that are
	// about to expire. Expiry itself is derived at read time; this job only
	// sends mail and never touches invite status.
	_, err := c.AddFunc("0 8 * * *", func() {
		err := SendPendingInviteReminders(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send pending invite reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule pending invite reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (pending invite reminders daily at 8am)")
	return c
}

// -------------------------------------------------------------
// Remind professors about pending invites expiring soon
// -------------------------------------------------------------
func SendPendingInviteReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	now := time.Now().UTC()
	windowEnd := now.Add(48 * time.Hour)

	rows, err := db.QueryContext(ctx, `
		SELECT
			u.email,
			u.first_name,
			COUNT(*) AS pending_count,
			MIN(i.expires_at) AS soonest_expiry
		FROM invites i
		JOIN users u ON u.id = i.issuer_id
		WHERE i.status = 'pending'
			AND i.expires_at IS NOT NULL
			AND i.expires_at > ?
			AND i.expires_at <= ?
		GROUP BY i.issuer_id, u.email, u.first_name
	`, now.Format("2006-01-02 15:04:05"), windowEnd.Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	defer rows.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for rows.Next() {
		var (
			email, firstName string
			pendingCount     int
			soonestExpiryRaw sql.NullString
		)

		if err := rows.Scan(&email, &firstName, &pendingCount, &soonestExpiryRaw); err != nil {
			utils.Logger.Errorf("Failed to scan reminder row: %v", err)
			continue
		}

		var soonestExpiry time.Time
		if soonestExpiryRaw.Valid {
			soonestExpiry, err = time.Parse("2006-01-02 15:04:05", soonestExpiryRaw.String)
			if err != nil {
				utils.Logger.Errorf("Failed to parse expires_at for %s: %v", email, err)
				continue
			}
		} else {
			soonestExpiry = windowEnd
		}

		wg.Add(1)
		go func(email, firstName string, pendingCount int, soonestExpiry time.Time) {
			defer wg.Done()

			if err := utils.SendPendingInviteReminderEmail(email, firstName, pendingCount, soonestExpiry); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", email, err)
				return
			}

			utils.Logger.Infof("📧 Sent pending invite reminder to %s (%d invite(s))", email, pendingCount)
		}(email, firstName, pendingCount, soonestExpiry)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating reminder rows: %v", err)
		return err
	}

	return nil
}
