package entities

import (
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

var estornoMap = fieldmap.MustNew(
	fieldmap.Field{FormKey: "DATA_ENT", Column: "DATA_ENT", Type: fieldmap.TypeDate},
	fieldmap.Field{FormKey: "ÁREA", Column: "AREA"},
	fieldmap.Field{FormKey: "AGÊNCIA", Column: "AG"},
	fieldmap.Field{FormKey: "CONTA", Column: "CC"},
	fieldmap.Field{FormKey: "CLIENTE", Column: "NOME_CLIENTE"},
	fieldmap.Field{FormKey: "CNPJ", Column: "CNPJ"},
	fieldmap.Field{FormKey: "VLR_ESTORNO", Column: "VLR_EST", Type: fieldmap.TypeCurrency},
	fieldmap.Field{FormKey: "TARIFA", Column: "Tar"},
	fieldmap.Field{FormKey: "DT_ESTORNO", Column: "DT_EST", Type: fieldmap.TypeDate},
	fieldmap.Field{FormKey: "VLR_CREDITO", Column: "VLR_CRED", Type: fieldmap.TypeCurrency},
	fieldmap.Field{FormKey: "STATUS", Column: "STATUS"},
	fieldmap.Field{FormKey: "RESPONSAVEL", Column: "RESP"},
	fieldmap.Field{FormKey: "SEGMENTO", Column: "SEGMENTO"},
	fieldmap.Field{FormKey: "NM_AGÊNCIA", Column: "NOME_AG"},
	fieldmap.Field{FormKey: "CLASS", Column: "CLASS"},
	fieldmap.Field{FormKey: "PARECER", Column: "PARECER_OP", Type: fieldmap.TypeFreeText},
	fieldmap.Field{FormKey: "GRUPO", Column: "GRUPO"},
)

// Estorno is a reversal of a tariff charged in error.
var Estorno = Entity{
	Name:       "estorno",
	Title:      "Estorno de Tarifas",
	Table:      "Estorno",
	PrimaryKey: "Id",
	DateColumn: "DATA_ENT",
	Mapping:    estornoMap,

	RecentProjection: []query.Projection{
		text("RESP", "responsavel"),
		dateOrNow("DT_EST", "data"),
		text("NOME_CLIENTE", "cliente"),
		text("CNPJ", "cnpj"),
		text("AG", "ag"),
		text("CC", "conta"),
	},
	RecentOrder: []query.Order{{Column: "DATA_ENT", Desc: true}},

	Profiles: []Profile{
		{
			Name: ProfileSearch,
			Projection: []query.Projection{
				text("NOME_CLIENTE", "cliente"),
				text("CNPJ", "cnpj"),
				text("AG", "ag"),
				text("CC", "conta"),
				text("Tar", "tarifa"),
			},
			Criteria: registerCriteria("AG", "CC", "NOME_CLIENTE", "Tar"),
		},
		{
			Name:       ProfileCadastro,
			Projection: fullProjection("Id", estornoMap),
			Criteria:   registerCriteria("AG", "CC", "NOME_CLIENTE", "Tar"),
		},
		{
			Name:       ProfileConsulta,
			Projection: fullProjection("Id", estornoMap),
			Criteria:   append(registerCriteria("AG", "CC", "NOME_CLIENTE", "Tar"), period("DATA_ENT")...),
		},
	},
}

func init() {
	register(Estorno)
}
