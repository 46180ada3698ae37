package repository

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang-stock-proxy/internal/entity"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/simplifiedchinese"
)

const (
	guidelineTableSelector = "#BalanceSheetNewTable0"
	reportDateLabel        = "报告日期"
)

var unitSuffixes = []string{"(%)", "（%）", "(元)", "（元）", "(次)", "（次）", "(天)", "（天）"}

// ParseFinancialGuideline extracts every report column of the financial
// guideline table. Reports are returned most recent first.
func ParseFinancialGuideline(body []byte, contentType string) ([]entity.FinancialReport, error) {
	if isGBK(contentType, body) {
		decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode gbk page: %w", err)
		}
		body = decoded
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse financial guideline page: %w", err)
	}

	table := doc.Find(guidelineTableSelector)
	if table.Length() == 0 {
		return []entity.FinancialReport{}, nil
	}

	var reports []entity.FinancialReport
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			// section headers span the whole row
			return
		}

		label := NormalizeIndicatorName(cells.First().Text())
		values := cells.Slice(1, cells.Length())

		if label == reportDateLabel {
			reports = make([]entity.FinancialReport, 0, values.Length())
			values.Each(func(_ int, cell *goquery.Selection) {
				reports = append(reports, entity.FinancialReport{
					ReportDate: strings.TrimSpace(cell.Text()),
					Values:     map[string]*float64{},
				})
			})
			return
		}
		if reports == nil || label == "" {
			return
		}

		values.Each(func(i int, cell *goquery.Selection) {
			if i >= len(reports) {
				return
			}
			reports[i].Values[label] = parseNumber(cell.Text())
		})
	})

	// the page already lists newest first, keep it that way regardless
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].ReportDate > reports[j].ReportDate
	})
	return reports, nil
}

// NormalizeIndicatorName trims whitespace and a trailing unit such as "(%)".
func NormalizeIndicatorName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, " ", ""))
	for _, suffix := range unitSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	return strings.TrimSpace(name)
}

// StripTags removes HTML markup (such as search highlight tags) and the
// provider's full-width padding.
func StripTags(s string) string {
	if strings.Contains(s, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	s = strings.ReplaceAll(s, "　", "")
	s = strings.ReplaceAll(s, "\r\n", "")
	return strings.TrimSpace(s)
}

func isGBK(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "charset=gb") {
		return true
	}
	if strings.Contains(ct, "charset=") {
		return false
	}
	head := body
	if len(head) > 1024 {
		head = head[:1024]
	}
	lower := bytes.ToLower(head)
	return bytes.Contains(lower, []byte("charset=gb2312")) || bytes.Contains(lower, []byte("charset=gbk"))
}
