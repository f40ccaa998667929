package service

import (
	"html"
	"strconv"
	"strings"

	"petshop_redirect_v1_202608/internal/model"
)

// ==================== 下拉框渲染 ====================
//
// 纯函数：目录树 -> <select> 片段。
// 只有叶子商品可选，分类/子分类是 disabled 表头。
// 选中判断是精确字符串比较，不做任何归一化。

// 内联下拉在列表页的 JS 钩子类名
const DropdownClass = "pr-redirect-dropdown"

// 默认的 select 元素 ID，编辑页 metabox 用
const DefaultDropdownID = "pr_redirect_url"

// BuildDropdown 构建层级下拉框 HTML
// selectedURL: 当前已保存的跳转地址，空 = 未设置
// elementID:   select 的 name/id
// productID:   >0 时渲染成列表页的内联下拉，挂 data-product-id 和 nonce
// nonce:       productID > 0 时必须传，绑定该商品的一次性动作 nonce
func BuildDropdown(tree model.CatalogTree, selectedURL, elementID string, productID int64, nonce string) string {
	var b strings.Builder

	b.WriteString(`<select name="` + html.EscapeString(elementID) + `" id="` + html.EscapeString(elementID) + `" style="width:100%;"`)
	if productID > 0 {
		b.WriteString(` data-product-id="` + strconv.FormatInt(productID, 10) + `"`)
		b.WriteString(` data-nonce="` + html.EscapeString(nonce) + `"`)
		b.WriteString(` class="` + DropdownClass + `"`)
	}
	b.WriteString(`>`)

	// 第一项永远是"不跳转"，value 为空串
	b.WriteString(`<option value="">-- No Redirect --</option>`)

	for _, category := range tree {
		// 顶层分类表头（不可选）
		b.WriteString(`<option value="" disabled="disabled">` + html.EscapeString(category.Name) + `</option>`)
		for _, sub := range category.Children {
			// 子分类表头（不可选）
			b.WriteString(`<option value="" disabled="disabled">-- ` + html.EscapeString(sub.Name) + `</option>`)
			for _, product := range sub.Products {
				b.WriteString(`<option value="` + html.EscapeString(product.URL) + `"`)
				if product.URL == selectedURL {
					b.WriteString(` selected="selected"`)
				}
				b.WriteString(`>--- ` + html.EscapeString(product.Name) + `</option>`)
			}
		}
	}

	b.WriteString(`</select>`)
	return b.String()
}
