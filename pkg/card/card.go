// Package card turns tabular rows into card content.
//
// A row carries six string columns in this order:
//
//	name, photo URL, age, country, interest, net worth
//
// Short rows are padded with empty strings. The net worth column is a
// formatted currency string such as "$1,250,000"; it is parsed leniently and
// mapped to a [Tier] whose color borders the card.
package card

import (
	"strconv"
	"strings"
)

// Column positions within a row.
const (
	ColName = iota
	ColPhoto
	ColAge
	ColCountry
	ColInterest
	ColNetWorth

	NumColumns
)

// Columns names the row columns in order.
var Columns = [NumColumns]string{"name", "photo", "age", "country", "interest", "net_worth"}

// Card is the content shown on one visual card.
type Card struct {
	Name        string  `json:"name"`
	PhotoURL    string  `json:"photo_url,omitempty"`
	Age         string  `json:"age,omitempty"`
	Country     string  `json:"country,omitempty"`
	Interest    string  `json:"interest,omitempty"`
	NetWorthRaw string  `json:"net_worth_raw,omitempty"`
	NetWorth    float64 `json:"net_worth"`
	Tier        Tier    `json:"tier"`
}

// FromRow builds a card from one row. Missing columns become empty strings.
func FromRow(row []string) Card {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	worth := ParseNetWorth(col(ColNetWorth))
	return Card{
		Name:        col(ColName),
		PhotoURL:    col(ColPhoto),
		Age:         col(ColAge),
		Country:     col(ColCountry),
		Interest:    col(ColInterest),
		NetWorthRaw: col(ColNetWorth),
		NetWorth:    worth,
		Tier:        TierFor(worth),
	}
}

// FromRows builds one card per row, preserving order.
func FromRows(rows [][]string) []Card {
	cards := make([]Card, len(rows))
	for i, r := range rows {
		cards[i] = FromRow(r)
	}
	return cards
}

// Row returns the card as a six-column row.
func (c Card) Row() []string {
	return []string{c.Name, c.PhotoURL, c.Age, c.Country, c.Interest, c.NetWorthRaw}
}

// Color returns the card's tier color.
func (c Card) Color() string { return c.Tier.Color() }

// ParseNetWorth strips '$' and ',' from s and parses the longest leading
// decimal number. Anything unparseable yields 0.
func ParseNetWorth(s string) float64 {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	s = strings.TrimSpace(s)
	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

// numericPrefix returns the length of the longest prefix of s that reads as
// a decimal float: optional sign, digits, optional fraction and exponent.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > exp {
			i = j
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
