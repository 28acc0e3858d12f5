// Package pricing хранит серверную таблицу цен на лицензии.
// Таблица загружается один раз при старте и дальше только читается,
// поэтому её можно безопасно разделять между обработчиками.
package pricing

import (
	"errors"
	"fmt"
	"sort"
)

// MinorUnitsPerMajor количество минимальных единиц валюты в одной основной (пайсы в рупии).
const MinorUnitsPerMajor = 100

// ErrUnknownPlan возвращается, если plan ID отсутствует в таблице.
var ErrUnknownPlan = errors.New("unknown plan")

// Table неизменяемое отображение plan ID -> цена в основных единицах валюты.
type Table struct {
	prices map[string]int64
}

// New создаёт таблицу из конфига. Входная карта копируется.
func New(prices map[string]int64) (*Table, error) {
	const op = "pricing.New"
	if len(prices) == 0 {
		return nil, fmt.Errorf("%s: empty price table", op)
	}
	cp := make(map[string]int64, len(prices))
	for id, price := range prices {
		if id == "" {
			return nil, fmt.Errorf("%s: empty plan id", op)
		}
		if price <= 0 {
			return nil, fmt.Errorf("%s: plan %q has non-positive price %d", op, id, price)
		}
		cp[id] = price
	}
	return &Table{prices: cp}, nil
}

// Amount возвращает сумму к оплате в минимальных единицах валюты.
func (t *Table) Amount(planID string) (int64, error) {
	price, ok := t.prices[planID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlan, planID)
	}
	return price * MinorUnitsPerMajor, nil
}

func (t *Table) Plans() []string {
	ids := make([]string, 0, len(t.prices))
	for id := range t.prices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
