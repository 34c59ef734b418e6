// Package export renders activity conditions as downloadable reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
)

// ContentType is the media type written by WriteCSV.
const ContentType = "text/csv; charset=utf-8"

// variableHeader is the column row of the variables table.
var variableHeader = []string{"Variable", "Value", "Unit", "Status", "Status Text", "Recommendation"}

// WriteCSV writes c as a CSV report: a key/value header block, the variables
// table, then weather, tide and safety sections. Sections are separated by
// an empty record.
func WriteCSV(w io.Writer, c domain.ActivityCondition) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"Activity", string(c.Activity)},
		{"Location", c.Location},
		{"Latitude", formatFloat(c.Latitude)},
		{"Longitude", formatFloat(c.Longitude)},
		{"Date", c.Date},
		{"Score", strconv.Itoa(c.Score)},
		{"Overall", string(c.Overall)},
		{"Details", c.Details},
		{},
		variableHeader,
	}
	for _, v := range c.Variables {
		records = append(records, []string{
			v.Name,
			formatFloat(v.Value),
			v.Unit,
			v.Status.String(),
			v.StatusText,
			v.Recommendation,
		})
	}

	if c.Weather != nil {
		records = append(records,
			[]string{},
			[]string{"Weather"},
			[]string{"Temperature", formatFloat(c.Weather.Temp), "°C"},
			[]string{"Wind Speed", formatFloat(c.Weather.WindSpeed), "km/h"},
			[]string{"Humidity", formatFloat(c.Weather.Humidity), "%"},
			[]string{"Description", c.Weather.Description},
		)
	}

	if c.Tide != nil {
		records = append(records,
			[]string{},
			[]string{"Tide"},
			[]string{"Type", string(c.Tide.Type)},
			[]string{"Height", formatFloat(c.Tide.Height), "m"},
			[]string{"Time", c.Tide.Time},
		)
		if c.Tide.Next != nil {
			records = append(records,
				[]string{"Next Type", string(c.Tide.Next.Type)},
				[]string{"Next Height", formatFloat(c.Tide.Next.Height), "m"},
				[]string{"Next Time", c.Tide.Next.Time},
			)
		}
		if c.Tide.Trend != "" {
			records = append(records, []string{"Trend", string(c.Tide.Trend)})
		}
	}

	if len(c.Safety) > 0 {
		records = append(records, []string{}, []string{"Safety"})
		for _, tip := range c.Safety {
			records = append(records, []string{tip})
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv for condition %s: %w", c.ID, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
