package model

import (
	"strconv"
	"strings"

	"github.com/golang-sql/civil"
)

type Frequency string

const (
	OnceDaily       Frequency = "Once daily"
	TwiceDaily      Frequency = "Twice daily"
	ThreeTimesDaily Frequency = "Three times daily"
	FourTimesDaily  Frequency = "Four times daily"
)

var frequencies = []Frequency{OnceDaily, TwiceDaily, ThreeTimesDaily, FourTimesDaily}

// FrequencyFromChoice maps a menu choice "1".."4" to a Frequency.
// Anything else falls back to OnceDaily.
func FrequencyFromChoice(choice string) Frequency {
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(frequencies) {
		return OnceDaily
	}
	return frequencies[n-1]
}

type Medicine struct {
	Name      string
	Dosage    string
	Frequency Frequency
	StartDate civil.Date
	EndDate   civil.Date
	Stock     int

	// cumulative since creation, never reset
	TakenToday  int
	MissedToday int
}

// TakeDose consumes one unit of stock. An empty medicine returns
// ErrOutOfStock and is left untouched.
func (m *Medicine) TakeDose() error {
	if m.Stock <= 0 {
		return ErrOutOfStock
	}
	m.Stock--
	m.TakenToday++
	return nil
}

func (m *Medicine) LowStock() bool      { return m.Stock <= LowStockThreshold }
func (m *Medicine) CriticalStock() bool { return m.Stock <= CriticalStockThreshold }

type StockLevel int

const (
	StockGood StockLevel = iota
	StockWarning
	StockLow
)

func (l StockLevel) String() string {
	switch l {
	case StockGood:
		return "good"
	case StockWarning:
		return "warning"
	default:
		return "low"
	}
}

func (m *Medicine) Level() StockLevel {
	switch {
	case m.Stock > 10:
		return StockGood
	case m.Stock > LowStockThreshold:
		return StockWarning
	default:
		return StockLow
	}
}
