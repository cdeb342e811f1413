package voucher

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

// Service validates drafts and keeps the saved vouchers in a Book.
type Service struct {
	validator *Validator
	book      *Book
	log       logrus.FieldLogger
}

// NewService creates a voucher Service.
func NewService(validator *Validator, book *Book, log logrus.FieldLogger) *Service {
	return &Service{validator: validator, book: book, log: log.WithField("module", "voucher")}
}

// Check validates d without numbering or storing it.
func (s *Service) Check(d model.VoucherDraft) (Totals, error) {
	return s.validator.Check(d)
}

// Save validates d, assigns its number and appends it to the book.
func (s *Service) Save(ctx context.Context, d model.VoucherDraft) (model.Voucher, error) {
	v, err := s.validator.Validate(ctx, d)
	if err != nil {
		var ve ValidationError
		if errors.As(err, &ve) {
			s.log.WithFields(logrus.Fields{"kind": ve.Kind, "line": ve.Line}).Info("voucher rejected")
		}
		return model.Voucher{}, err
	}

	if err := s.book.Add(v); err != nil {
		return model.Voucher{}, err
	}

	s.log.WithFields(logrus.Fields{
		"number": v.Number,
		"type":   v.Type,
		"debit":  v.TotalDebit.StringFixed(2),
	}).Info("voucher saved")
	return v, nil
}

// Post marks a saved voucher as posted.
func (s *Service) Post(id string) (model.Voucher, error) {
	v, err := s.book.Post(id)
	if err != nil {
		return v, err
	}
	s.log.WithField("number", v.Number).Info("voucher posted")
	return v, nil
}

// Delete removes a voucher that has not been posted.
func (s *Service) Delete(id string) error {
	if err := s.book.Delete(id); err != nil {
		return err
	}
	s.log.WithField("id", id).Info("voucher deleted")
	return nil
}

// Get returns a voucher by ID.
func (s *Service) Get(id string) (model.Voucher, bool) {
	return s.book.Get(id)
}

// List returns every voucher in the book.
func (s *Service) List() []model.Voucher {
	return s.book.List()
}
