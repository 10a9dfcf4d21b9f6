package report

import (
	"context"
	"fmt"

	"github.com/mbolis/pie-reports/model"
)

// Fetcher supplies the data reports are composed from.
type Fetcher interface {
	FetchInstance(ctx context.Context, id int64) (*model.Instance, error)
	FetchFilteredRecords(ctx context.Context, kind model.RecordKind, filters model.Predicates) ([]model.Record, error)
}

// Service fetches data, composes the requested report and notifies the
// outcome.
type Service struct {
	Fetcher  Fetcher
	Composer *Composer
	Notifier Notifier
}

func NewService(f Fetcher, c *Composer, n Notifier) *Service {
	if n == nil {
		n = LogNotifier{}
	}
	return &Service{Fetcher: f, Composer: c, Notifier: n}
}

// InstanceReport composes the individual or executive report of an
// instance.
func (s *Service) InstanceReport(ctx context.Context, id int64, variant string) (*Document, error) {
	v, err := ParseVariant(variant)
	if err != nil {
		return nil, s.fail(err)
	}
	if v == Filtered {
		return nil, s.fail(&UnsupportedVariantError{Requested: variant})
	}

	inst, err := s.Fetcher.FetchInstance(ctx, id)
	if err != nil {
		return nil, s.fail(fmt.Errorf("fetch instance %d: %w", id, err))
	}

	var doc *Document
	if v == Individual {
		doc, err = s.Composer.Individual(inst)
	} else {
		doc, err = s.Composer.Executive(inst)
	}
	if err != nil {
		return nil, s.fail(err)
	}
	s.succeed(doc)
	return doc, nil
}

// RecordsReport composes the filtered report over the records of a kind.
func (s *Service) RecordsReport(ctx context.Context, kind string, filters model.Predicates) (*Document, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, s.fail(err)
	}
	records, err := s.Fetcher.FetchFilteredRecords(ctx, k, filters)
	if err != nil {
		return nil, s.fail(fmt.Errorf("fetch %s: %w", k, err))
	}
	doc, err := s.Composer.Filtered(k, records, filters)
	if err != nil {
		return nil, s.fail(err)
	}
	s.succeed(doc)
	return doc, nil
}

func (s *Service) succeed(doc *Document) {
	s.Notifier.Notify(NotifySuccess, fmt.Sprintf("Relatório %s gerado (%d página(s))", doc.Filename, doc.Pages))
}

func (s *Service) fail(err error) error {
	s.Notifier.Notify(NotifyError, "Falha ao gerar relatório: "+err.Error())
	return err
}
