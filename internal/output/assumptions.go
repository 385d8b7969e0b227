package output

// DefaultAssumptions lists the underwriting conventions rendered in detailed
// reports so a reader can interpret the figures without the guideline doc.
var DefaultAssumptions = []string{
	"Vacancy default: 5% of gross rent when the file does not state one",
	"Management fee default: 8% of total gross income",
	"Taxes and insurance carried monthly (annual figures divided by 12)",
	"Flood insurance and discretionary expenses reduce NOI but sit outside PITIA",
	"Qualifying payment is the note-rate payment, interest-only when applicable",
}
