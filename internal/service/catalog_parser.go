package service

import (
	"encoding/json"

	"petshop_redirect_v1_202608/internal/model"
)

// ==================== 目录 JSON 解析 ====================
//
// 远端返回什么就存什么，解析时再逐节点把关：
// 缺 name / 缺 url / 类型不对的节点直接跳过，残缺目录降级成残缺菜单。

// 宽松中间结构，指针字段区分"缺失"和"空值"
type rawCatalogProduct struct {
	URL  *string `json:"url"`
	Name *string `json:"name"`
}

type rawCatalogSubCategory struct {
	Name     *string           `json:"name"`
	Products []json.RawMessage `json:"products"`
}

type rawCatalogCategory struct {
	Name     *string           `json:"name"`
	Children []json.RawMessage `json:"children"`
}

// ParseCatalogTree 把远端 JSON 数组解析成目录树
// 顶层不是数组 -> 空树。节点级错误只丢弃该节点，不中断整树。
func ParseCatalogTree(payload []byte) model.CatalogTree {
	if len(payload) == 0 {
		return nil
	}

	var rawCategories []json.RawMessage
	if err := json.Unmarshal(payload, &rawCategories); err != nil {
		return nil
	}

	tree := make(model.CatalogTree, 0, len(rawCategories))
	for _, rawCat := range rawCategories {
		var cat rawCatalogCategory
		if err := json.Unmarshal(rawCat, &cat); err != nil || cat.Name == nil {
			continue
		}

		category := model.CatalogCategory{Name: *cat.Name}
		for _, rawSub := range cat.Children {
			var sub rawCatalogSubCategory
			if err := json.Unmarshal(rawSub, &sub); err != nil || sub.Name == nil {
				continue
			}

			subCategory := model.CatalogSubCategory{Name: *sub.Name}
			for _, rawProd := range sub.Products {
				var prod rawCatalogProduct
				if err := json.Unmarshal(rawProd, &prod); err != nil || prod.URL == nil || prod.Name == nil {
					continue
				}
				subCategory.Products = append(subCategory.Products, model.CatalogProduct{
					URL:  *prod.URL,
					Name: *prod.Name,
				})
			}
			category.Children = append(category.Children, subCategory)
		}
		tree = append(tree, category)
	}

	return tree
}
