package dashboard

// widgetTypes is the set of widget types the server accepts in the widget
// list. The renderer lives client-side; the server only guards identity.
var widgetTypes = map[string]struct{}{
	"clock":              {},
	"weather":            {},
	"calendar":           {},
	"todo":               {},
	"quicklinks":         {},
	"notes":              {},
	"rss":                {},
	"pomodoro":           {},
	"youtube":            {},
	"habit-tracker":      {},
	"currency-converter": {},
	"flight-tracker":     {},
	"qr":                 {},
	"spreadsheet":        {},
	"spotify":            {},
	"mindicador":         {},
}

// KnownType reports whether the widget type is registered.
func KnownType(t string) bool {
	_, ok := widgetTypes[t]
	return ok
}
