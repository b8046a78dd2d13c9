package printing

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pr-poehali-dev/inventory-management-system-4/internal/invoices"
	pkgerrors "github.com/pr-poehali-dev/inventory-management-system-4/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Renderer produces the standalone printable invoice document. The output is
// a complete HTML page carrying its own print styles, so the browser can open
// it in a fresh window and hand it straight to the print dialog.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the document template once up front.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("invoice").Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing invoice template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

type documentRow struct {
	Index     int
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

type documentData struct {
	Number string
	Date   string
	Rows   []documentRow
	Total  string
}

// Render builds the printable page for a committed invoice.
func (r *Renderer) Render(invoice *invoices.InvoiceDTO) ([]byte, error) {
	if invoice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice is required")
	}

	data := documentData{
		Number: invoice.Number,
		Date:   invoice.Date,
		Total:  FormatMoney(invoice.Total),
		Rows:   make([]documentRow, 0, len(invoice.Items)),
	}
	for i, item := range invoice.Items {
		data.Rows = append(data.Rows, documentRow{
			Index:     i + 1,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: FormatMoney(item.UnitPrice),
			LineTotal: FormatMoney(item.LineTotal),
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering invoice document")
	}
	return buf.Bytes(), nil
}

var rubles = message.NewPrinter(language.Russian)

// FormatMoney renders an amount the way the UI shows prices: Russian digit
// grouping with a ruble sign, kopecks only when the amount is not whole.
func FormatMoney(amount decimal.Decimal) string {
	whole := amount.Truncate(0)
	frac := amount.Sub(whole).Abs()
	if frac.IsZero() {
		return rubles.Sprintf("%d", whole.IntPart()) + " ₽"
	}
	kopecks := frac.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return rubles.Sprintf("%d", whole.IntPart()) + fmt.Sprintf(",%02d ₽", kopecks)
}

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Накладная {{.Number}}</title>
  <style>
    @page {
      size: A4 landscape;
      margin: 0;
    }
    body {
      font-family: 'Open Sans', Arial, sans-serif;
      margin: 0;
      padding: 20mm;
      display: flex;
      gap: 10mm;
    }
    .invoice {
      width: 148mm;
      height: 210mm;
      padding: 10mm;
      border: 1px solid #ddd;
      box-sizing: border-box;
    }
    h1 {
      font-family: 'Roboto', Arial, sans-serif;
      font-size: 18pt;
      margin: 0 0 5mm;
      color: #6366F1;
    }
    .meta {
      margin-bottom: 8mm;
      font-size: 10pt;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      margin: 5mm 0;
      font-size: 9pt;
    }
    th, td {
      border: 1px solid #ddd;
      padding: 3mm;
      text-align: left;
    }
    th {
      background-color: #f5f5f5;
      font-weight: 600;
    }
    .total {
      margin-top: 8mm;
      font-size: 14pt;
      font-weight: bold;
      text-align: right;
      color: #6366F1;
    }
    .text-right {
      text-align: right;
    }
  </style>
</head>
<body>
  <div class="invoice">
    <h1>НАКЛАДНАЯ</h1>
    <div class="meta">
      <div><strong>Номер:</strong> {{.Number}}</div>
      <div><strong>Дата:</strong> {{.Date}}</div>
    </div>
    <table>
      <thead>
        <tr>
          <th>№</th>
          <th>Наименование</th>
          <th class="text-right">Кол-во</th>
          <th class="text-right">Цена</th>
          <th class="text-right">Сумма</th>
        </tr>
      </thead>
      <tbody>
{{- range .Rows}}
        <tr>
          <td>{{.Index}}</td>
          <td>{{.Name}}</td>
          <td class="text-right">{{.Quantity}}</td>
          <td class="text-right">{{.UnitPrice}}</td>
          <td class="text-right">{{.LineTotal}}</td>
        </tr>
{{- end}}
      </tbody>
    </table>
    <div class="total">
      ИТОГО: {{.Total}}
    </div>
  </div>
</body>
</html>
`
