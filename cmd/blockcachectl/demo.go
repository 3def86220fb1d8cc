package main

import (
	"fmt"

	"github.com/nearstore/blockcache/cache"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Step through Insert/Lookup/Release/Erase/Prune once",
		RunE:  runDemo,
	}
	rootCmd.AddCommand(cmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	c := cache.New(cache.Options{Capacity: 3, Shards: 1})

	h1 := c.Insert([]byte("a"), "alpha", 1, nil)
	fmt.Println("insert a ->", c.Value(h1))
	c.Release(h1)

	h2, ok := c.Lookup([]byte("a"))
	if !ok {
		return fmt.Errorf("expected a hit on just-inserted key")
	}
	fmt.Println("lookup a ->", c.Value(h2))

	c.Erase([]byte("a"))
	fmt.Println("still readable while pinned:", c.Value(h2))
	c.Release(h2)

	_, ok = c.Lookup([]byte("a"))
	fmt.Println("lookup a after release ->", ok)

	c.Prune()
	fmt.Println("total charge after prune ->", c.TotalCharge())
	return nil
}
