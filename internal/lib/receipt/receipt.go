// Package receipt генерирует идентификаторы квитанций для заказов провайдера.
//
// Формат: "receipt_" + миллисекунды Unix + "_" + 4 случайных байта в hex,
// например receipt_1718000000000_9f86d081.
package receipt

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	// Prefix префикс каждого идентификатора.
	Prefix = "receipt_"
	// RandomBytes количество случайных байт в суффиксе.
	RandomBytes = 4
)

// Generator выдаёт новые идентификаторы квитанций.
type Generator struct {
	now    func() time.Time
	random io.Reader
}

// New создаёт генератор на системных часах и crypto/rand.
func New() *Generator {
	return &Generator{now: time.Now, random: rand.Reader}
}

// NewWithSource создаёт генератор с заданными часами и источником случайности.
func NewWithSource(now func() time.Time, random io.Reader) *Generator {
	return &Generator{now: now, random: random}
}

func (g *Generator) Next() (string, error) {
	const op = "receipt.Next"
	buf := make([]byte, RandomBytes)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return Prefix + strconv.FormatInt(g.now().UnixMilli(), 10) + "_" + hex.EncodeToString(buf), nil
}
