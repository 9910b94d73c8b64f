package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/golang-sql/civil"
	"go.uber.org/zap"

	"meditrack/internal/model"
)

const (
	defaultStock      = 30
	defaultCourseDays = 30
)

// NewMedicine is raw shell input. FrequencyChoice is "1".."4"; EndDate
// and Stock may be empty.
type NewMedicine struct {
	Name            string
	Dosage          string
	FrequencyChoice string
	EndDate         string
	Stock           string
}

// AddMedicine appends a medicine starting today. An unknown frequency
// choice means once daily and an empty or non-numeric stock means 30;
// both are deliberate fallbacks, not errors.
func (t *Tracker) AddMedicine(username string, in NewMedicine) (model.Medicine, error) {
	name := strings.TrimSpace(in.Name)
	dosage := strings.TrimSpace(in.Dosage)
	if name == "" {
		return model.Medicine{}, invalid("name required")
	}
	if dosage == "" {
		return model.Medicine{}, invalid("dosage required")
	}

	today := t.Today()
	end := today.AddDays(defaultCourseDays)
	if s := strings.TrimSpace(in.EndDate); s != "" {
		d, err := civil.ParseDate(s)
		if err != nil {
			return model.Medicine{}, invalid("end date %q is not YYYY-MM-DD", s)
		}
		end = d
	}

	stock := defaultStock
	if n, err := strconv.Atoi(strings.TrimSpace(in.Stock)); err == nil {
		if n < 0 {
			return model.Medicine{}, invalid("stock cannot be negative")
		}
		stock = n
	}

	u, err := t.user(username)
	if err != nil {
		return model.Medicine{}, err
	}

	m := model.Medicine{
		Name:      name,
		Dosage:    dosage,
		Frequency: model.FrequencyFromChoice(in.FrequencyChoice),
		StartDate: today,
		EndDate:   end,
		Stock:     stock,
	}
	u.Medicines = append(u.Medicines, m)
	if err := t.save(u); err != nil {
		return model.Medicine{}, err
	}
	t.log.Debug("medicine added", zap.String("username", username), zap.String("medicine", name))
	return m, nil
}

func (t *Tracker) ListMedicines(username string) ([]model.Medicine, error) {
	u, err := t.user(username)
	if err != nil {
		return nil, err
	}
	return u.Medicines, nil
}

type DoseResult struct {
	Medicine  string
	Remaining int
	LowStock  bool
}

// TakeMedicineDose records one dose of the medicine at index (0-based).
// Nothing is saved when the medicine is out of stock.
func (t *Tracker) TakeMedicineDose(username string, index int) (DoseResult, error) {
	u, err := t.user(username)
	if err != nil {
		return DoseResult{}, err
	}
	if index < 0 || index >= len(u.Medicines) {
		return DoseResult{}, ErrOutOfRange
	}

	m := &u.Medicines[index]
	if err := m.TakeDose(); err != nil {
		if errors.Is(err, model.ErrOutOfStock) {
			return DoseResult{Medicine: m.Name}, ErrOutOfStock
		}
		return DoseResult{}, err
	}
	if err := t.save(u); err != nil {
		return DoseResult{}, err
	}
	return DoseResult{Medicine: m.Name, Remaining: m.Stock, LowStock: m.LowStock()}, nil
}
