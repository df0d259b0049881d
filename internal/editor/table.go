package editor

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erazemk/trgovina/internal/form"
	"github.com/erazemk/trgovina/internal/model"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// Capitalize upper-cases the first letter of every word.
func Capitalize(s string) string {
	return titleCaser.String(s)
}

// FuncMap returns the helpers used by row and page templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"currency":       form.FormatCurrency,
		"percentage":     form.FormatPercentage,
		"capitalize":     Capitalize,
		"statusBadge":    model.StatusBadge,
		"conditionBadge": model.ConditionBadge,
		"modalURL":       ModalURL,
	}
}

// ModalURL returns the relative link opening a modal on the current page.
// keep carries the page's filters so closing the modal restores them.
func ModalURL(keep url.Values, modal, key string, id any) string {
	q := url.Values{}
	for k, vs := range keep {
		if k == "modal" || k == key {
			continue
		}
		q[k] = vs
	}
	q.Set("modal", modal)
	if key != "" {
		q.Set(key, fmt.Sprint(id))
	}
	return "?" + q.Encode()
}

// Table renders the rows of one entity table.
type Table[R any] struct {
	tmpl  *template.Template
	empty string
	cols  int
}

// NewTable parses rowTemplate, which is executed once per record with the
// record as dot. Empty is the text of the single row shown when there is
// nothing to list.
func NewTable[R any](name, rowTemplate string, cols int, empty string) *Table[R] {
	src := `{{range .Rows}}` + rowTemplate + `{{else}}<tr class="empty-row"><td colspan="{{$.Cols}}">{{$.Empty}}</td></tr>{{end}}`
	return &Table[R]{
		tmpl:  template.Must(template.New(name).Funcs(FuncMap()).Parse(src)),
		empty: empty,
		cols:  cols,
	}
}

// Render executes the table for records. Every record string is escaped.
func (t *Table[R]) Render(records []R, keep url.Values) (template.HTML, error) {
	var buf bytes.Buffer
	err := t.tmpl.Execute(&buf, struct {
		Rows  []R
		Keep  url.Values
		Empty string
		Cols  int
	}{records, keep, t.empty, t.cols})
	if err != nil {
		return "", fmt.Errorf("rendering %s rows: %w", t.tmpl.Name(), err)
	}
	return template.HTML(buf.String()), nil
}

const inventoryRow = `
<tr data-sku="{{.SKU}}">
  <td class="sku">{{.SKU}}</td>
  <td>{{.Name}}</td>
  <td>{{.Brand}}</td>
  <td>{{capitalize .Category}}</td>
  <td>{{.Size}}</td>
  <td><span class="badge {{conditionBadge .Condition}}">{{.Condition}}</span></td>
  <td class="money">{{currency .CostOfItem}}</td>
  <td class="money">{{currency .SellingPrice}}</td>
  <td><span class="badge {{statusBadge .ListingStatus}}">{{capitalize .ListingStatus}}</span></td>
  <td class="actions">
    <a class="btn btn-sm btn-edit" href="{{modalURL $.Keep "edit" "sku" .SKU}}">Edit</a>
    {{- if .CanSell}}
    <a class="btn btn-sm btn-sell" href="{{modalURL $.Keep "sell" "sku" .SKU}}">Sell</a>
    {{- end}}
    <a class="btn btn-sm btn-delete" href="{{modalURL $.Keep "delete" "sku" .SKU}}">Delete</a>
  </td>
</tr>`

const transactionRow = `
<tr data-id="{{.ID}}">
  <td>{{.Date}}</td>
  <td>{{.Description}}</td>
  <td>{{.Category}}</td>
  <td>{{.SubCategory}}</td>
  <td>{{.AccountName}}</td>
  <td class="money">{{currency .Amount}}</td>
  <td class="actions">
    <a class="btn btn-sm btn-edit" href="{{modalURL $.Keep "edit" "id" .ID}}">Edit</a>
    <a class="btn btn-sm btn-delete" href="{{modalURL $.Keep "delete" "id" .ID}}">Delete</a>
  </td>
</tr>`

const assetRow = `
<tr data-id="{{.ID}}">
  <td>{{.Name}}</td>
  <td>{{capitalize .AssetType}}</td>
  <td>{{.AssetCategory}}</td>
  <td>{{.PurchaseDate}}</td>
  <td class="money">{{currency .PurchasePrice}}</td>
  <td>{{if .IsActive}}<span class="badge bg-success">Active</span>{{else}}<span class="badge bg-secondary">Inactive</span>{{end}}</td>
  <td class="actions">
    <a class="btn btn-sm btn-view" href="{{modalURL $.Keep "details" "id" .ID}}">View</a>
    <a class="btn btn-sm btn-edit" href="{{modalURL $.Keep "edit" "id" .ID}}">Edit</a>
    <a class="btn btn-sm btn-delete" href="{{modalURL $.Keep "delete" "id" .ID}}">Delete</a>
  </td>
</tr>`

// Row tables.
var (
	InventoryTable   = NewTable[model.Item]("inventory", inventoryRow, 10, "No inventory items found")
	TransactionTable = NewTable[model.Transaction]("transactions", transactionRow, 7, "No transactions found")
	AssetTable       = NewTable[model.Asset]("assets", assetRow, 7, "No assets found")
)
