package liouvillean

import (
	"fmt"

	"github.com/tomgreen66/DynamO/sim"
)

func init() {
	sim.NewLiouvilleanFunc = newLiouvillean
}

func newLiouvillean(kind string) (sim.Liouvillean, error) {
	switch kind {
	case "", "newtonian":
		return NewNewtonian(), nil
	case "shearing":
		return NewShearing(), nil
	default:
		return nil, fmt.Errorf("liouvillean: unknown kind %q", kind)
	}
}
