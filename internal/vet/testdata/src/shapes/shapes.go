package shapes

//propkit:container "shape"
type Shape struct {
	//propkit:property "w"
	Width float64
	//propkit:property "w"
	Height float64 // want `property id 'w' on 'Height' is already used by 'Width'`
}

//propkit:container "circle"
type Circle struct {
	r float64
}

//propkit:property "r"
func (c Circle) Radius() float64 { return c.r }

//propkit:property "scaled"
func (c Circle) Scaled(f float64) float64 { return c.r * f } // want `note: method 'Scaled' must take no parameters`

//propkit:container "kind"
type Kind int // want `type 'Kind' cannot be a property container: only struct types are supported`
