package data

import _ "embed"

//go:embed ns.json
var NSData []byte

//go:embed arriva.csv
var ArrivaData []byte
