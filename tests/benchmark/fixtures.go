package benchmark

import (
	"fmt"
	"strings"
)

// GenerateSource generates a Go file with containerCount annotated
// containers. Each container has stored fields, a readonly field, a getter
// with a setter and an observed field.
func GenerateSource(containerCount int) string {
	var sb strings.Builder
	sb.WriteString("package shapes\n\nimport \"image/color\"\n")

	for i := 0; i < containerCount; i++ {
		fmt.Fprintf(&sb, `
//propkit:container "shape%[1]d"
type Shape%[1]d struct {
	//propkit:property "x"
	X float64
	//propkit:property "y"
	Y float64
	//propkit:property "fill"
	Fill color.RGBA
	//propkit:property "name"
	Name string `+"`propkit:\"readonly\"`"+`
	//propkit:property "visible"
	Visible bool

	scale float64
}

//propkit:property "scale"
func (s *Shape%[1]d) Scale() float64 { return s.scale }

func (s *Shape%[1]d) SetScale(v float64) { s.scale = v }

func (s *Shape%[1]d) beforeSetVisible(v bool) bool { return v }
`, i)
	}

	return sb.String()
}

// GenerateLargeSource generates a source file with roughly targetLOC lines
func GenerateLargeSource(targetLOC int) string {
	// each container is about 25 lines
	containerCount := targetLOC / 25
	if containerCount < 1 {
		containerCount = 1
	}
	return GenerateSource(containerCount)
}

// Generate1000LOC generates approximately 1000 lines of code
func Generate1000LOC() string {
	return GenerateLargeSource(1000)
}

// Generate5000LOC generates approximately 5000 lines of code
func Generate5000LOC() string {
	return GenerateLargeSource(5000)
}

// Generate50Containers generates exactly 50 containers
func Generate50Containers() string {
	return GenerateSource(50)
}

// DuplicateHeavySource generates one container whose properties all share an id
func DuplicateHeavySource(memberCount int) string {
	var sb strings.Builder
	sb.WriteString("package shapes\n\n//propkit:container \"dup\"\ntype Dup struct {\n")
	for i := 0; i < memberCount; i++ {
		fmt.Fprintf(&sb, "\t//propkit:property \"same\"\n\tF%d int\n", i)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// CountLOC counts non-empty lines
func CountLOC(source string) int {
	count := 0
	for _, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
