package jobs

import (
	"context"
	"time"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/logger"
)

// ActivateDueRentals moves paid reservations whose start date has
// arrived into the running state, for sellers who did not record the
// handover themselves.
func (jr *JobRunner) ActivateDueRentals() {
	jr.runWithRecovery("ActivateDueRentals", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		due, err := jr.store.Rentals.ListDueForActivation(ctx, now)
		if err != nil {
			logger.Error("Failed to list rentals due for activation", "error", err)
			return
		}

		count := 0
		for i := range due {
			rental := &due[i]
			if !rental.Status.CanTransitionTo(domain.RentalStatusInProgress) {
				continue
			}
			rental.Status = domain.RentalStatusInProgress
			if err := jr.store.Rentals.Update(ctx, rental); err != nil {
				logger.Error("Failed to activate rental", "rental_id", rental.ID, "error", err)
				continue
			}
			count++
			logger.Debug("Activated rental",
				"rental_id", rental.ID,
				"customer_id", rental.CustomerID,
				"date_start", rental.DateStart.Format("2006-01-02"))
		}

		logger.Info("Activated due rentals", "count", count)
	})
}

// NotifyOverdueRentals reminds sellers about running rentals past their
// end date that have not been marked as returned.
func (jr *JobRunner) NotifyOverdueRentals() {
	jr.runWithRecovery("NotifyOverdueRentals", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		overdue, err := jr.store.Rentals.ListOverdue(ctx, now)
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		count := 0
		for i := range overdue {
			rental := &overdue[i]

			seller, err := jr.store.Users.GetByID(ctx, rental.SellerID)
			if err != nil {
				logger.Error("Failed to load seller for overdue rental", "rental_id", rental.ID, "error", err)
				continue
			}
			if err := jr.services.Email.SendRentalOverdueReminder(ctx, seller.Email, rental.ProductName, rental.DateEnd); err != nil {
				logger.Error("Failed to send overdue reminder", "rental_id", rental.ID, "error", err)
				continue
			}

			notif := &domain.Notification{
				ID:      domain.NewID(),
				UserID:  rental.SellerID,
				Title:   "Rental overdue",
				Message: "The rental of " + rental.ProductName + " is past its end date",
				Attributes: map[string]string{
					"type":      "RENTAL_OVERDUE",
					"rental_id": rental.ID.String(),
				},
				CreatedOn: now,
			}
			if err := jr.store.Notifications.Create(ctx, notif); err != nil {
				logger.Error("Failed to record overdue notification", "rental_id", rental.ID, "error", err)
			}
			count++
		}

		logger.Info("Sent overdue rental reminders", "count", count)
	})
}
