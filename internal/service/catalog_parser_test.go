package service

import (
	"testing"
)

func TestParseCatalogTree_WellFormed(t *testing.T) {
	payload := []byte(`[
		{"name":"Dogs","children":[
			{"name":"Toys","products":[
				{"url":"https://x/p1","name":"Widget"},
				{"url":"https://x/p2","name":"Gadget"}
			]}
		]}
	]`)

	tree := ParseCatalogTree(payload)
	if len(tree) != 1 {
		t.Fatalf("分类数量不对: %d", len(tree))
	}
	if tree[0].Name != "Dogs" {
		t.Errorf("分类名不对: %s", tree[0].Name)
	}
	if len(tree[0].Children) != 1 || len(tree[0].Children[0].Products) != 2 {
		t.Fatalf("树结构不对: %+v", tree)
	}
	if tree[0].Children[0].Products[0].URL != "https://x/p1" {
		t.Errorf("商品 URL 不对: %s", tree[0].Children[0].Products[0].URL)
	}
}

func TestParseCatalogTree_NotAnArray(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(``),
		[]byte(`{}`),
		[]byte(`"hello"`),
		[]byte(`not json at all`),
	}
	for _, payload := range cases {
		if tree := ParseCatalogTree(payload); !tree.IsEmpty() {
			t.Errorf("payload %q 应解析为空树", payload)
		}
	}
}

func TestParseCatalogTree_MalformedNodesSkipped(t *testing.T) {
	// 缺 name 的分类、非对象节点、缺 url 的商品都要静默丢弃，其余保留
	payload := []byte(`[
		{"children":[]},
		"just a string",
		{"name":"Good","children":[
			{"products":[{"url":"https://x/p0","name":"Orphan"}]},
			123,
			{"name":"Sub","products":[
				{"name":"NoURL"},
				{"url":"https://x/p1"},
				{"url":"https://x/p2","name":"Keep"},
				"garbage"
			]}
		]}
	]`)

	tree := ParseCatalogTree(payload)
	if len(tree) != 1 {
		t.Fatalf("只有一个分类合法，实际 %d 个", len(tree))
	}
	if len(tree[0].Children) != 1 {
		t.Fatalf("只有一个子分类合法，实际 %d 个", len(tree[0].Children))
	}
	products := tree[0].Children[0].Products
	if len(products) != 1 || products[0].Name != "Keep" {
		t.Fatalf("商品过滤不对: %+v", products)
	}
}
