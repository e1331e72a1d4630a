package watchface

import (
	"fmt"
	"text/tabwriter"

	"github.com/bodgit/watchface/face"
)

// PrintTypes lists the known slot types followed by the known screens.
func (t *Tool) PrintTypes() error {
	w := tabwriter.NewWriter(t.out, 0, 8, 1, ' ', 0)

	fmt.Fprintln(w, "Code\tName\tFrames\tDescription")
	for _, ti := range face.Types() {
		frames := fmt.Sprint(ti.Frames)
		if face.IsAnimation(ti.Code) {
			frames = "*"
		}
		fmt.Fprintf(w, "0x%02x\t%s\t%s\t%s\n", ti.Code, ti.Name, frames, ti.Description)
	}
	fmt.Fprintln(w, "\t\t\t* uses animationFrames")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tpls\tScreen\tType\tModel\tCode")
	for _, s := range face.Screens {
		fmt.Fprintf(w, "%s\t%dx%d\t%s\t%s\t%s\n", s.Tpls, s.Width, s.Height, s.Kind, s.Model, s.Code)
	}

	return w.Flush()
}
