package currency

import (
	"fmt"
	"math"
	"strings"
)

var symbols = map[string]string{
	"EUR": "€",
	"GBP": "£",
	"USD": "$",
}

// Format renders an amount the way Dutch price tags do: "€ 1.234,50".
// Unknown codes fall back to the code itself as prefix.
func Format(amount float64, code string) string {
	code = strings.ToUpper(code)
	prefix, ok := symbols[code]
	if !ok {
		prefix = code
	}

	cents := int64(math.Round(amount * 100))
	negative := cents < 0
	if negative {
		cents = -cents
	}

	whole := fmt.Sprintf("%d", cents/100)
	result := fmt.Sprintf("%s %s,%02d", prefix, addThousandsSeparator(whole, "."), cents%100)
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
