// Package category holds the shop's preset categories and the locale-aware
// fallback label used when an entry has none.
package category

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

const (
	OtherEnglish = "Other"
	OtherThai    = "อื่นๆ"
)

var localeMatcher = language.NewMatcher([]language.Tag{language.English, language.Thai})

// Fallback returns the "Other" label for the closest supported locale.
func Fallback(tag language.Tag) string {
	_, idx, _ := localeMatcher.Match(tag)
	if idx == 1 {
		return OtherThai
	}

	return OtherEnglish
}

// ParseLocale parses a BCP-47 tag, defaulting to English when s is empty or invalid.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}

	return tag
}

var presets = map[ledger.Kind][]string{
	ledger.KindIncome: {
		"ถ่ายเอกสาร A4 ขาวดำ",
		"ถ่ายเอกสาร A4 สี",
		"print A4 ขาวดำ",
		"print A4 สี",
		"เคลือบบัตร ขนาดการ์ดทั่วไป",
		"เคลือบบัตร ขนาด A4",
		"ถ่ายเอกสาร A3 สี",
		"ถ่ายเอกสาร A3 ขาวดำ",
		"print A3 ขาวดำ",
		"print A3",
	},
	ledger.KindExpense: {
		"ค่าหมึก",
		"ค่ากระดาษ",
		"ค่าน้ำ",
		"ค่าไฟ",
	},
}

// Presets returns the built-in categories for kind, without the fallback label.
func Presets(kind ledger.Kind) []string {
	return append([]string(nil), presets[kind]...)
}

type Repository interface {
	DistinctCategories(ctx context.Context, kind *ledger.Kind) ([]string, error)
}

type Service struct {
	repo     Repository
	fallback string
}

func NewService(repo Repository, locale language.Tag) *Service {
	return &Service{repo: repo, fallback: Fallback(locale)}
}

// FallbackLabel is the label assigned to entries without a category.
func (s *Service) FallbackLabel() string {
	return s.fallback
}

// List returns presets first, then categories already in use, then the fallback
// label, without duplicates. A nil kind merges both kinds.
func (s *Service) List(ctx context.Context, kind *ledger.Kind) ([]string, error) {
	used, err := s.repo.DistinctCategories(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("listing used categories: %w", err)
	}

	var out []string

	seen := make(map[string]struct{})
	add := func(names ...string) {
		for _, n := range names {
			if _, ok := seen[n]; ok || n == "" {
				continue
			}

			seen[n] = struct{}{}
			out = append(out, n)
		}
	}

	if kind == nil {
		add(presets[ledger.KindIncome]...)
		add(presets[ledger.KindExpense]...)
	} else {
		add(presets[*kind]...)
	}

	add(used...)
	add(s.fallback)

	return out, nil
}
