package dialogtree

import (
	"github.com/google/uuid"
)

// pointerSpace namespaces pointer ids so the same (source, condition, target)
// triple always yields the same id across runs and machines. Regenerating a
// skill from an unchanged script must produce byte-identical output, and the
// triple is unique within a script because a node's choice labels are unique.
var pointerSpace = uuid.MustParse("9f2c1d6e-4b7a-4a1f-8c3d-2e5b9a0f6c41")

func pointerID(source, condition, target string) string {
	u := uuid.NewSHA1(pointerSpace, []byte(source+"\x00"+condition+"\x00"+target))
	return source + "-" + target + "-" + u.String()[:8]
}
