package core

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

// sampleProfiles is the fixed list used to fill the form with demo data.
var sampleProfiles = []Profile{
	{CNPJ: "23.456.789/0001-45", Nome: "Maria Oliveira Costa", Local: "São Paulo - SP"},
	{CNPJ: "34.567.890/0001-56", Nome: "José Santos Silva", Local: "Rio de Janeiro - RJ"},
	{CNPJ: "45.678.901/0001-67", Nome: "Ana Paula Rodrigues", Local: "Belo Horizonte - MG"},
	{CNPJ: "56.789.012/0001-78", Nome: "Carlos Eduardo Souza", Local: "Brasília - DF"},
	{CNPJ: "67.890.123/0001-89", Nome: "Juliana Ferreira Lima", Local: "Curitiba - PR"},
}

// AmountRange is a half-open interval [Min, Min+Span).
type AmountRange struct {
	Min  float64
	Span float64
}

// SampleRanges lists the demo ranges per revenue field, in form order.
var SampleRanges = [6]AmountRange{
	{Min: 500, Span: 3000},  // comércio sem documento
	{Min: 1000, Span: 8000}, // comércio com documento
	{Min: 0, Span: 2000},    // indústria sem documento
	{Min: 0, Span: 5000},    // indústria com documento
	{Min: 300, Span: 2500},  // serviços sem documento
	{Min: 800, Span: 6000},  // serviços com documento
}

// SampleProfiles returns a copy of the demo profiles.
func SampleProfiles() []Profile {
	return append([]Profile(nil), sampleProfiles...)
}

// SampleGenerator produces demo profiles and reports.
type SampleGenerator struct {
	rnd *rand.Rand
	now func() time.Time
}

// NewSampleGenerator returns a generator. A nil rnd uses a time-seeded source
// and a nil now uses time.Now.
func NewSampleGenerator(rnd *rand.Rand, now func() time.Time) *SampleGenerator {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if now == nil {
		now = time.Now
	}
	return &SampleGenerator{rnd: rnd, now: now}
}

// Generate returns a random demo profile and a report dated today.
func (g *SampleGenerator) Generate() (Profile, Report) {
	p := sampleProfiles[g.rnd.IntN(len(sampleProfiles))]
	var v [6]string
	for i, r := range SampleRanges {
		v[i] = decimal.NewFromFloat(r.Min + g.rnd.Float64()*r.Span).StringFixed(2)
	}
	rep := Report{
		ComercioSemDoc:  v[0],
		ComercioComDoc:  v[1],
		IndustriaSemDoc: v[2],
		IndustriaComDoc: v[3],
		ServicosSemDoc:  v[4],
		ServicosComDoc:  v[5],
		DataAssinatura:  g.now().Format("2006-01-02"),
	}
	return p, rep
}
