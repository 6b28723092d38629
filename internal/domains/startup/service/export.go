package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"launchsignal-backend/internal/domains/startup/model"
)

const exportSheet = "Startups"

var exportHeaders = []string{
	"ID",
	"Name",
	"Tagline",
	"Industry",
	"Categories",
	"Business Type",
	"Website",
	"Founder",
	"Founder Email",
	"Status",
	"Views",
	"Upvotes",
	"Special Offer",
	"Discount",
	"Created At",
}

// ExportAdmin renders the moderation list for the same filters as ListAdmin
// as an XLSX workbook.
func (s *startupService) ExportAdmin(ctx context.Context, query model.AdminListQuery) ([]byte, error) {
	list, err := s.ListAdmin(ctx, query)
	if err != nil {
		return nil, err
	}

	f, err := buildStartupWorkbook(list.Startups)
	if err != nil {
		return nil, fmt.Errorf("build export: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}
	return buf.Bytes(), nil
}

func buildStartupWorkbook(startups []model.StartupListing) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, style)
	}

	for i, st := range startups {
		offer := ""
		if st.HasSpecialOffer {
			offer = st.SpecialOfferText
		}
		row := []interface{}{
			st.ID.String(),
			st.Name,
			st.Tagline,
			st.Industry,
			strings.Join(st.Categories, ", "),
			string(st.BusinessType),
			st.Website,
			st.FounderName,
			st.FounderEmail,
			string(st.Status),
			st.Views,
			st.Upvotes,
			offer,
			st.Discount.InexactFloat64(),
			st.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, start, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}
