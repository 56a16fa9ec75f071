package hst

//Rand is the source of uniform draws that randomizes tree construction.
//*math/rand.Rand satisfies it; tests can inject a seeded or scripted source
//instead of relying on process-wide random state.
type Rand interface {
	Intn(n int) int
	Float64() float64
}
