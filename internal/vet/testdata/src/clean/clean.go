package clean

import "image/color"

//propkit:container "swatch"
type Swatch struct {
	//propkit:property "fill"
	Fill color.RGBA
	//propkit:property "name"
	Name string `propkit:"readonly"`
}

// Plain types are not checked.
type Plain struct {
	Value int
}
