package loose

type Loose struct { // want `type 'Loose' has no container id: no container annotation`
	//propkit:property "x"
	X int
}

//propkit:container "pair"
type Pair struct {
	//propkit:property "first"
	First string
	//propkit:property "first"
	//propkit:property "second"
	Second string // want `property id 'first' on 'Second' is already used by 'First'` `note: 'Second' already has a property annotation`
}
