package broken

type Good struct {
	Name string
}

type Bad struct {
	Ref Missing
}

type AlsoGood struct {
	Items []Good
}

type UsesBad struct {
	B *Bad
}
