package services

import (
	"bufio"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

const exportSheet = "Directory"

var ExportHeader = []string{"Name", "Rank", "Position", "Type", "Service", "Organization", "Status", "Email", "Phone", "Location"}

func exportRow(p person.Person) []string {
	return []string{
		p.Name(),
		p.RankTitle(),
		p.Position(),
		string(p.PositionType()),
		string(p.ServiceAgency()),
		p.OrganizationName(),
		string(p.Status()),
		p.Email(),
		p.Phone(),
		p.Location(),
	}
}

// WriteCSV writes persons with every data cell quoted. Blank values become "".
func WriteCSV(w io.Writer, persons []person.Person) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(ExportHeader, ",") + "\n"); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, p := range persons {
		row := exportRow(p)
		for i, cell := range row {
			if i > 0 {
				_ = bw.WriteByte(',')
			}
			_ = bw.WriteByte('"')
			_, _ = bw.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			_ = bw.WriteByte('"')
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "write row")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush")
	}
	return nil
}

// WriteXLSX writes persons into a single-sheet workbook.
func WriteXLSX(w io.Writer, persons []person.Person) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}

	header := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i, p := range persons {
		row := exportRow(p)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return errors.Wrapf(err, "write row %d", i+2)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}
