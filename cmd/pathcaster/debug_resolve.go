//go:build ignore

package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"pathcaster/mapper"
	"pathcaster/mapping"
	"pathcaster/store"
	"pathcaster/warehouse"
)

func main() {
	rules, err := mapping.LoadFile("./examples/orders/rules.yaml")
	if err != nil {
		fmt.Println("load rules:", err)
		os.Exit(1)
	}

	m, err := mapper.New(
		mapper.WithRules(rules),
		mapper.WithTypes(store.Order{}, warehouse.Order{}),
	)
	if err != nil {
		fmt.Println("build mapper:", err)
		os.Exit(1)
	}

	var dst warehouse.Order
	if err := m.Map(&dst, store.Order{Number: "SO-1", Status: store.StatusPaid}); err != nil {
		fmt.Println("map:", err)
		os.Exit(1)
	}

	fmt.Println(m.Plan().Describe())
	spew.Dump(dst.GetNumber(), dst.GetStatus())
}
