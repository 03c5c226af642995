package leeloo_test

import (
	"fmt"
	"strings"

	"github.com/contriboss/leeloo-go"
)

func ExampleList_RandomSets() {
	i1 := leeloo.NewIntervalU32()
	i1.Assign(4, 11)
	i2 := leeloo.NewIntervalU32()
	i2.Assign(20, 40)

	list := leeloo.NewIntervalListU32()
	list.Add(i1)
	list.Add(i2)
	list.Aggregate()

	calls, total := 0, 0
	list.RandomSets(10, func(set []uint32) {
		calls++
		total += len(set)
	})
	fmt.Println(list.Intervals())
	fmt.Println(calls, "sets,", total, "values")

	// Output:
	// [[4, 11] [20, 40]]
	// 10 sets, 29 values
}

func ExampleList_Aggregate() {
	list := leeloo.NewList[uint16]()
	list.AddRange(10, 20)
	list.AddRange(15, 30)
	list.AddRange(31, 40)
	list.AddRange(100, 200)
	list.RemoveRange(150, 160)
	list.Aggregate()

	var parts []string
	for iv := range list.All() {
		parts = append(parts, iv.String())
	}
	fmt.Println(strings.Join(parts, " "))
	fmt.Println(list.Size())

	// Output:
	// [10, 40] [100, 149] [161, 200]
	// 121
}
