package board_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/sprintboard/pkg/board"
)

func ExampleBoard_PlaceTask() {
	b := board.New(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))
	lane := b.Members[0].Lane()

	design, _ := b.AddTask("design")
	build, _ := b.AddTask("build")

	res, _ := b.PlaceTask(design.ID, lane, 0, 187.5)
	fmt.Println(res.Row, res.Overlapped)

	res, _ = b.PlaceTask(build.ID, lane, 100, 187.5)
	fmt.Println(res.Row, res.Overlapped)
	fmt.Println(b.LayerCount(lane))
	// Output:
	// 0 false
	// 1 true
	// 2
}
