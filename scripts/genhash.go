// One-off: go run scripts/genhash.go [password] [cost]
package main

import (
	"fmt"
	"os"
	"strconv"

	"todoapi/internal/auth"
)

func main() {
	password := "password1"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	cost := 10
	if len(os.Args) > 2 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil {
			cost = n
		}
	}
	h, err := auth.NewPasswordHasher(cost).Hash(password)
	if err != nil {
		panic(err)
	}
	fmt.Print(h)
}
