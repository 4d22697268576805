package store

import (
	"time"

	"go-rental-pos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LineRequest is one (product, quantity) entry of a sale or rental request.
// Lines are processed strictly in the order the caller supplied them, so the
// same product may appear more than once and each occurrence sees the stock
// left by the previous one.
type LineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// takeStock decrements a product's stock inside tx, guarded so the row can
// never go negative even under concurrent checkouts. The WHERE clause is the
// isolation mechanism: two transactions racing on the same product cannot
// both pass the stock >= qty test for units that only exist once.
func takeStock(tx *gorm.DB, p *models.Product, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", p.ID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   qty,
			Available:   p.Stock,
		}
	}
	return nil
}

func returnStock(tx *gorm.DB, productID uint, qty int) error {
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

// CreateSale books a multi-line sale atomically: every line decrements stock
// and snapshots the product's current unit price, and any failing line rolls
// the whole sale back with no stock change.
func (s *Store) CreateSale(clientID, userID uint, paymentMethod string, lines []LineRequest) (*models.Sale, error) {
	var sale models.Sale

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, clientID).Error; err != nil {
			return translateNotFound(err)
		}

		var total float64
		var items []models.SaleItem

		for _, line := range lines {
			if line.Quantity <= 0 {
				return ErrInvalidQuantity
			}

			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				return translateNotFound(err)
			}
			if err := takeStock(tx, &product, line.Quantity); err != nil {
				return err
			}

			subtotal := float64(line.Quantity) * product.Price
			total += subtotal
			items = append(items, models.SaleItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				Subtotal:  subtotal,
			})
		}

		sale = models.Sale{
			ClientID:      clientID,
			UserID:        userID,
			Total:         total,
			PaymentMethod: paymentMethod,
			SaleTime:      time.Now(),
			Items:         items,
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// CreateRental books a multi-line rental. On top of the sale rules, every
// product must be flagged rentable and the charge is quantity x per-day price
// x whole days between the two dates.
func (s *Store) CreateRental(clientID, userID uint, start, end time.Time, deposit float64, paymentMethod, notes string, lines []LineRequest) (*models.Rental, error) {
	if !end.After(start) {
		return nil, ErrInvalidDateRange
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return nil, ErrInvalidDateRange
	}

	var rental models.Rental

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, clientID).Error; err != nil {
			return translateNotFound(err)
		}

		var total float64
		var items []models.RentalItem

		for _, line := range lines {
			if line.Quantity <= 0 {
				return ErrInvalidQuantity
			}

			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				return translateNotFound(err)
			}
			if !product.Rentable {
				return &NotRentableError{ProductID: product.ID, ProductName: product.Name}
			}
			if err := takeStock(tx, &product, line.Quantity); err != nil {
				return err
			}

			subtotal := float64(line.Quantity) * product.RentalPricePerDay * float64(days)
			total += subtotal
			items = append(items, models.RentalItem{
				ProductID:   product.ID,
				Quantity:    line.Quantity,
				PricePerDay: product.RentalPricePerDay,
				Days:        days,
				Subtotal:    subtotal,
			})
		}

		rental = models.Rental{
			ClientID:      clientID,
			UserID:        userID,
			StartDate:     start,
			EndDate:       end,
			Total:         total,
			Deposit:       deposit,
			Status:        models.RentalStatusActive,
			PaymentMethod: paymentMethod,
			Notes:         notes,
			Items:         items,
		}
		return tx.Create(&rental).Error
	})
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// FinalizeRental marks an active rental finished, stamps the actual return
// time and puts every rented unit back in stock. Finalizing twice fails: the
// second call sees the finished status and restores nothing.
func (s *Store) FinalizeRental(rentalID uint) (*models.Rental, error) {
	var rental models.Rental

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&rental, rentalID).Error; err != nil {
			return translateNotFound(err)
		}
		if rental.Status != models.RentalStatusActive {
			return ErrInvalidState
		}

		for _, item := range rental.Items {
			if err := returnStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		now := time.Now()
		rental.Status = models.RentalStatusFinished
		rental.ReturnedAt = &now
		return tx.Model(&models.Rental{}).Where("id = ?", rental.ID).
			Updates(map[string]interface{}{"status": rental.Status, "returned_at": rental.ReturnedAt}).Error
	})
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// DeleteSale reverses a sale: stock comes back for every line, then the sale
// and its lines are removed.
func (s *Store) DeleteSale(saleID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.Preload("Items").First(&sale, saleID).Error; err != nil {
			return translateNotFound(err)
		}
		for _, item := range sale.Items {
			if err := returnStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return tx.Select(clause.Associations).Delete(&sale).Error
	})
}

// DeleteRental removes a rental. Stock is restored only when the rental is
// still active; a finished rental already returned its units at finalize time
// and must not return them twice.
func (s *Store) DeleteRental(rentalID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var rental models.Rental
		if err := tx.Preload("Items").First(&rental, rentalID).Error; err != nil {
			return translateNotFound(err)
		}
		if rental.Status == models.RentalStatusActive {
			for _, item := range rental.Items {
				if err := returnStock(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return tx.Select(clause.Associations).Delete(&rental).Error
	})
}

// DeleteClient removes a client and every sale and rental they own, reversing
// stock for each. It reports how many of each were removed, since the caller
// needs to know the blast radius of the cascade.
func (s *Store) DeleteClient(clientID uint) (salesRemoved, rentalsRemoved int, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, clientID).Error; err != nil {
			return translateNotFound(err)
		}

		var sales []models.Sale
		if err := tx.Preload("Items").Where("client_id = ?", clientID).Find(&sales).Error; err != nil {
			return err
		}
		for _, sale := range sales {
			for _, item := range sale.Items {
				if err := returnStock(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			if err := tx.Select(clause.Associations).Delete(&sale).Error; err != nil {
				return err
			}
		}

		var rentals []models.Rental
		if err := tx.Preload("Items").Where("client_id = ?", clientID).Find(&rentals).Error; err != nil {
			return err
		}
		for _, rental := range rentals {
			if rental.Status == models.RentalStatusActive {
				for _, item := range rental.Items {
					if err := returnStock(tx, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
			}
			if err := tx.Select(clause.Associations).Delete(&rental).Error; err != nil {
				return err
			}
		}

		salesRemoved = len(sales)
		rentalsRemoved = len(rentals)
		return tx.Delete(&client).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return salesRemoved, rentalsRemoved, nil
}
