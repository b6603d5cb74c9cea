package quotes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/sage/internal/contracts"
)

// FetchFundamentals scrapes valuation ratios for one symbol
// ⭐ SSOT: 펀더멘털 비율 스크래핑은 이 함수에서만
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*contracts.FundamentalRecord, error) {
	html, err := c.fetchHTML(ctx, fmt.Sprintf("/item/main.naver?code=%s", symbol))
	if err != nil {
		return nil, err
	}

	record, err := parseFundamentalsHTML(html, symbol)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
	}).Debug("Fetched fundamentals")

	return record, nil
}

// FetchFundamentalsBatch scrapes ratios for many symbols.
// 한 종목의 실패는 경고만 남기고 계속 진행한다.
func (c *Client) FetchFundamentalsBatch(ctx context.Context, symbols []string) ([]contracts.FundamentalRecord, error) {
	records := make([]contracts.FundamentalRecord, 0, len(symbols))
	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		record, err := c.FetchFundamentals(ctx, symbol)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"symbol": symbol,
			}).Warn("Failed to fetch fundamentals, skipping")
			continue
		}
		records = append(records, *record)
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"fetched":   len(records),
	}).Info("Fundamentals batch fetched")

	return records, nil
}

// parseFundamentalsHTML extracts ratios from a quote page.
// PER/PBR come from the summary ids; ROE, 부채비율, 순이익률 from the
// financial analysis table (latest column wins).
func parseFundamentalsHTML(html, symbol string) (*contracts.FundamentalRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	record := &contracts.FundamentalRecord{Symbol: symbol}

	if v, ok := parseNumber(doc.Find("em#_per").First().Text()); ok {
		record.PERatio = contracts.Float64Ptr(v)
	}
	if v, ok := parseNumber(doc.Find("em#_pbr").First().Text()); ok {
		record.PBRatio = contracts.Float64Ptr(v)
	}

	// 재무분석 테이블: 행 헤더로 지표를 찾는다
	doc.Find("div.cop_analysis table tbody tr").Each(func(i int, row *goquery.Selection) {
		header := strings.TrimSpace(row.Find("th").First().Text())
		value, ok := latestCellValue(row)
		if !ok {
			return
		}

		switch {
		case strings.Contains(header, "ROE"):
			record.ROE = contracts.Float64Ptr(value / 100) // percent -> fraction
		case strings.Contains(header, "부채비율"):
			record.DebtToEquity = contracts.Float64Ptr(value / 100)
		case strings.Contains(header, "순이익률"):
			record.ProfitMargin = contracts.Float64Ptr(value / 100)
		}
	})

	if record.PERatio == nil && record.PBRatio == nil &&
		record.ROE == nil && record.DebtToEquity == nil && record.ProfitMargin == nil {
		return nil, fmt.Errorf("no ratios found for %s", symbol)
	}

	return record, nil
}

// latestCellValue returns the right-most parsable cell of a table row
func latestCellValue(row *goquery.Selection) (float64, bool) {
	var value float64
	var found bool

	row.Find("td").Each(func(i int, cell *goquery.Selection) {
		if v, ok := parseNumber(cell.Text()); ok {
			value = v
			found = true
		}
	})

	return value, found
}

// parseNumber parses a localized numeric cell ("12,345.67", "-", "N/A")
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "배")
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "-" || strings.EqualFold(s, "N/A") {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
