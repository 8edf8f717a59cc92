// Package seed loads a chart of accounts from YAML and registers it through
// the account service.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/hotel_ledger/internal/core/ports/services"
	"github.com/SscSPs/hotel_ledger/internal/dto"
	"gopkg.in/yaml.v3"
)

// ChartAccount is one account in the seed file. Parent refers to another
// account's code, in this file or already stored.
type ChartAccount struct {
	Code     string             `yaml:"code"`
	Name     string             `yaml:"name"`
	Type     domain.AccountType `yaml:"type"`
	Category string             `yaml:"category"`
	Parent   string             `yaml:"parent"`
}

// Chart is the root of the seed file.
type Chart struct {
	Accounts []ChartAccount `yaml:"accounts"`
}

// Result summarises an Apply run.
type Result struct {
	Created []string
	Skipped []string
}

// LoadChartFile reads and parses a chart of accounts.
func LoadChartFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}
	return ParseChart(data)
}

// ParseChart parses a chart of accounts from YAML.
func ParseChart(data []byte) (*Chart, error) {
	var chart Chart
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &chart, nil
}

// Ordered returns the accounts with every parent ahead of its children,
// keeping file order otherwise. Parents not defined in the file are assumed
// to exist already.
func (c *Chart) Ordered() ([]ChartAccount, error) {
	byCode := make(map[string]ChartAccount, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.Code == "" {
			return nil, fmt.Errorf("%w: chart entry %q has no code", apperrors.ErrValidation, a.Name)
		}
		if _, dup := byCode[a.Code]; dup {
			return nil, fmt.Errorf("%w: code %s appears twice in chart", apperrors.ErrValidation, a.Code)
		}
		byCode[a.Code] = a
	}

	const (
		visiting = 1
		done     = 2
	)
	marks := make(map[string]int, len(c.Accounts))
	ordered := make([]ChartAccount, 0, len(c.Accounts))

	var visit func(code string) error
	visit = func(code string) error {
		switch marks[code] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: chart hierarchy cycle at %s", apperrors.ErrValidation, code)
		}
		marks[code] = visiting
		a := byCode[code]
		if _, inFile := byCode[a.Parent]; a.Parent != "" && inFile {
			if err := visit(a.Parent); err != nil {
				return err
			}
		}
		marks[code] = done
		ordered = append(ordered, a)
		return nil
	}

	for _, a := range c.Accounts {
		if err := visit(a.Code); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

// Apply creates every chart account whose code is not stored yet. Existing
// codes are skipped, so running it twice is harmless.
func Apply(ctx context.Context, accounts portssvc.AccountSvcFacade, actor domain.Actor, chart *Chart) (*Result, error) {
	ordered, err := chart.Ordered()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, a := range ordered {
		if _, err := accounts.GetAccountByCode(ctx, a.Code); err == nil {
			res.Skipped = append(res.Skipped, a.Code)
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return res, err
		}

		req := dto.CreateAccountRequest{
			Code:        a.Code,
			Name:        a.Name,
			AccountType: a.Type,
			Category:    a.Category,
		}
		if a.Parent != "" {
			parent, err := accounts.GetAccountByCode(ctx, a.Parent)
			if err != nil {
				return res, fmt.Errorf("account %s: parent %s: %w", a.Code, a.Parent, err)
			}
			req.ParentAccountID = &parent.AccountID
		}

		if _, err := accounts.CreateAccount(ctx, actor, req); err != nil {
			return res, fmt.Errorf("account %s: %w", a.Code, err)
		}
		slog.Debug("Seeded account", slog.String("code", a.Code), slog.String("name", a.Name))
		res.Created = append(res.Created, a.Code)
	}
	return res, nil
}
