package tradier

import (
	"bytes"

	"github.com/bcdannyboy/lattice/models"
	"github.com/xhhuango/json"
)

type Day struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int     `json:"volume"`
}

// Days decodes the "day" field, which Tradier sends as an object when the
// range holds a single day and as an array otherwise.
type Days []Day

func (d *Days) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = nil
		return nil
	}
	if data[0] == '{' {
		var day Day
		if err := json.Unmarshal(data, &day); err != nil {
			return err
		}
		*d = Days{day}
		return nil
	}

	var days []Day
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	*d = days
	return nil
}

type QuoteHistory struct {
	History *struct {
		Day Days `json:"day"`
	} `json:"history"`
}

// Days returns the daily rows, or nil when Tradier answered "history": null.
func (q *QuoteHistory) Days() Days {
	if q == nil || q.History == nil {
		return nil
	}
	return q.History.Day
}

// Bars converts the history into OHLC bars for the volatility estimators.
func (q *QuoteHistory) Bars() []models.Bar {
	days := q.Days()
	bars := make([]models.Bar, len(days))
	for i, day := range days {
		bars[i] = models.Bar{Open: day.Open, High: day.High, Low: day.Low, Close: day.Close}
	}
	return bars
}

type Quote struct {
	Symbol    string  `json:"symbol"`
	Last      float64 `json:"last"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	PrevClose float64 `json:"prevclose"`
}

type quotesResponse struct {
	Quotes struct {
		Quote *Quote `json:"quote"`
	} `json:"quotes"`
}
