package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/pkg/kafka"
)

// ListLoansByBorrower pages the copies on loan to one user.
func (s *Service) ListLoansByBorrower(ctx context.Context, userID int, req model.PageRequest) (model.ListBookInstances, error) {
	if userID == 0 {
		return model.ListBookInstances{}, errs.ErrNotFound
	}
	return s.repo.ListLoans(ctx, userID, req)
}

func (s *Service) ListAllLoans(ctx context.Context, req model.PageRequest) (model.ListBookInstances, error) {
	return s.repo.ListLoans(ctx, 0, req)
}

func (s *Service) GetBookInstance(ctx context.Context, id string) (model.BookInstance, error) {
	return s.repo.GetBookInstance(ctx, id)
}

// RenewBookInstance validates the date against today and stores it as due_back.
func (s *Service) RenewBookInstance(ctx context.Context, id string, form model.RenewForm) error {
	dueBack, err := form.Date()
	if err != nil {
		return err
	}
	if err = model.ValidateRenewalDate(dueBack, s.Today()); err != nil {
		return err
	}
	bi, err := s.repo.GetBookInstance(ctx, id)
	if err != nil {
		return err
	}
	bi.DueBack = &dueBack
	if err = bi.Validate(); err != nil {
		return errors.Wrapf(err, "renew %s", id)
	}
	if err = s.repo.UpdateDueBack(ctx, id, dueBack); err != nil {
		return err
	}
	s.publish(ctx, kafka.EventRenewed, entityBookInstance, id)
	return nil
}
