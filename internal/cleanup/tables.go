package cleanup

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/inkwell-go/readability/internal/dom"
)

// markDataTables walks every <table> under root, deepest-nested first, and
// tags each with a data-readability-table-type of "data" or "presentation"
// so cleanConditionally and the layout-flattening pass below can tell a real
// data table from one used purely for visual layout. Grounded on the
// teacher's markDataTables/processAndClassifyTable
// (internal/readability/cleanup.go).
func markDataTables(root *goquery.Selection) {
	byLevel := groupTablesByNestingLevel(root)
	for level := len(byLevel) - 1; level >= 0; level-- {
		for _, table := range byLevel[level] {
			classifyTable(table, level)
		}
	}
	flattenNestedLayoutTables(root)
}

func groupTablesByNestingLevel(root *goquery.Selection) [][]*goquery.Selection {
	byLevel := make(map[int][]*goquery.Selection)
	maxLevel := 0

	root.Find("table").Each(func(_ int, table *goquery.Selection) {
		level := 0
		for parent := table.Parent(); parent.Length() > 0; parent = parent.Parent() {
			if dom.NodeName(parent) == "TABLE" {
				level++
			}
		}
		if level > maxLevel {
			maxLevel = level
		}
		byLevel[level] = append(byLevel[level], table)
	})

	result := make([][]*goquery.Selection, maxLevel+1)
	for level := 0; level <= maxLevel; level++ {
		result[level] = byLevel[level]
	}
	return result
}

func classifyTable(table *goquery.Selection, nestingLevel int) {
	if isTablePresentational(table) {
		table.SetAttr("data-readability-table-type", "presentation")
		if isNavigationTable(table) {
			table.SetAttr("data-readability-table-nav", "true")
		}
		return
	}
	if isTableData(table) {
		table.SetAttr("data-readability-table-type", "data")
		return
	}

	linkDensity := dom.LinkDensity(table)
	if linkDensity > NavigationLinkDensityThreshold {
		table.SetAttr("data-readability-table-type", "presentation")
		table.SetAttr("data-readability-table-nav", "true")
		return
	}
	if nestingLevel > LayoutTableNestingThreshold {
		table.SetAttr("data-readability-table-type", "presentation")
		return
	}

	rows, columns, cells := tableMetrics(table)
	if rows >= DataTableMinRows || columns > DataTableMinColumns || cells > DataTableMinCells {
		table.SetAttr("data-readability-table-type", "data")
		return
	}

	textLength := len(dom.InnerText(table, true))
	linkTextLength := 0
	table.Find("a").Each(func(_ int, a *goquery.Selection) { linkTextLength += len(dom.InnerText(a, true)) })
	if textLength-linkTextLength > LayoutTableTextContentThreshold && linkDensity < 0.3 {
		table.SetAttr("data-readability-table-type", "data")
	} else {
		table.SetAttr("data-readability-table-type", "presentation")
	}
}

func isTablePresentational(table *goquery.Selection) bool {
	if role, ok := table.Attr("role"); ok && role == "presentation" {
		return true
	}
	if dt, ok := table.Attr("datatable"); ok && dt == "0" {
		return true
	}
	if width, ok := table.Attr("width"); ok && width == "100%" {
		border, hasBorder := table.Attr("border")
		if !hasBorder || border == "0" {
			spacing, hasSpacing := table.Attr("cellspacing")
			if !hasSpacing || spacing == "0" {
				return true
			}
		}
	}
	combined := classAndIDLower(table)
	for _, p := range []string{"layout", "grid", "wrapper", "container", "outer", "inner"} {
		if strings.Contains(combined, p) {
			return true
		}
	}
	return false
}

func isTableData(table *goquery.Selection) bool {
	if summary, ok := table.Attr("summary"); ok && summary != "" {
		return true
	}
	if caption := table.Find("caption"); caption.Length() > 0 && strings.TrimSpace(caption.Text()) != "" {
		return true
	}
	for _, tag := range []string{"col", "colgroup", "tfoot", "thead", "th"} {
		if table.Find(tag).Length() > 0 {
			return true
		}
	}
	combined := classAndIDLower(table)
	for _, p := range []string{"data", "stats", "statistics", "results", "info"} {
		if strings.Contains(combined, p) {
			return true
		}
	}
	return false
}

func isNavigationTable(table *goquery.Selection) bool {
	if dom.LinkDensity(table) > NavigationLinkDensityThreshold {
		return true
	}
	combined := classAndIDLower(table)
	for _, p := range []string{"nav", "menu", "header", "sidebar", "topbar"} {
		if strings.Contains(combined, p) {
			return true
		}
	}
	liCount := table.Find("li").Length()
	if liCount > 3 && table.Find("a").Length() >= int(float64(liCount)*0.8) {
		return true
	}
	return false
}

func classAndIDLower(s *goquery.Selection) string {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	return strings.ToLower(class + " " + id)
}

func tableMetrics(table *goquery.Selection) (rows, columns, cells int) {
	rows = table.Find("tr").Length()
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		rowCols := 0
		tr.Find("td, th").Each(func(_ int, td *goquery.Selection) {
			span, _ := strconv.Atoi(td.AttrOr("colspan", "1"))
			if span < 1 {
				span = 1
			}
			rowCols += span
		})
		if rowCols > columns {
			columns = rowCols
		}
	})
	cells = table.Find("td, th").Length()
	return
}

// flattenNestedLayoutTables replaces presentation tables nested inside
// another presentation table with plain divs. Single-cell tables are not
// handled here; Run collapses them later through collapseSingleCellTables.
func flattenNestedLayoutTables(root *goquery.Selection) {
	root.Find(`table[data-readability-table-type='presentation'] table[data-readability-table-type='presentation']`).Each(func(_ int, nested *goquery.Selection) {
		if nested.Length() == 0 {
			return
		}
		if parent := nested.ParentsFiltered("table").First(); parent.AttrOr("data-readability-table-type", "") == "data" {
			return
		}

		replacement := dom.NewElement("div")
		replacement.SetAttr("class", "readability-flattened-table")

		if nested.AttrOr("data-readability-table-nav", "") == "true" {
			nested.Find("a").Each(func(_ int, link *goquery.Selection) {
				if strings.TrimSpace(link.Text()) == "" {
					return
				}
				div := dom.NewElement("div")
				div.AppendSelection(link.Clone())
				replacement.AppendSelection(div)
			})
		} else {
			nested.Find("tr").Each(func(_ int, row *goquery.Selection) {
				rowDiv := dom.NewElement("div")
				rowDiv.SetAttr("class", "readability-table-row")
				row.Find("td").Each(func(_ int, cell *goquery.Selection) {
					cellDiv := dom.NewElement("div")
					cellDiv.SetAttr("class", "readability-table-cell")
					if h, err := cell.Html(); err == nil {
						cellDiv.SetHtml(h)
					}
					rowDiv.AppendSelection(cellDiv)
				})
				if rowDiv.Children().Length() > 0 {
					replacement.AppendSelection(rowDiv)
				}
			})
		}

		if replacement.Children().Length() > 0 {
			nested.ReplaceWithSelection(replacement)
		}
	})
}
