package llm

import "strings"

// BuildExtractionPrompt composes the fixed extraction instruction around the
// invoice text: exactly the fields of the invoice data model, dates
// normalized to YYYY-MM-DD, JSON only.
func BuildExtractionPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract the following structured data from this invoice text: ")
	b.WriteString(text)
	b.WriteString(". Specifically, I need: vendor (name, address, taxId), ")
	b.WriteString("invoiceInfo (number, date (YYYY-MM-DD), dueDate (YYYY-MM-DD), totalAmount, currency), ")
	b.WriteString("and lineItems (description, quantity, unitPrice, total). ")
	b.WriteString("Ensure all dates are in YYYY-MM-DD format. ")
	b.WriteString("Return the data as a JSON object only.")
	return b.String()
}
