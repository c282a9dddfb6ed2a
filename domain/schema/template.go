package schema

// TemplateSchema is the reference column order for the consolidated output.
// Non-question columns keep this relative order; question columns (P#) are
// re-sorted naturally among themselves, so the template only fixes where the
// question block sits.
var TemplateSchema = []string{
	"ID Coleta", "ID Questionário", "Autor", "Data início", "Data fim", "Duração",
	"Latitude", "Longitude", "Revisão", "Sincronizacao", "Finalizada", "PIN",
	"Enviada para Webhook", "Número do WhatsApp", "ramal", "P1", "P2", "P3", "P4",
	"P5", "P6", "P7", "P7_1", "P7_2", "P7_3", "P7_4", "P7_5", "P7_6", "P7_7", "P7_8",
	"P8", "P9", "P9_2", "P9_3", "P9_4", "P9_1", "P9_5", "P9_6", "P9_7", "P9_8", "P9_9",
	"P9_10", "P10", "P10_2", "P10_3", "P10_4", "P10_1", "P10_5", "P10_6", "P10_7", "P10_8",
	"P10_9", "P10_10", "P11", "P12", "P13", "P14", "P15", "P16", "P17", "P18", "P19",
	"P20", "P21", "P22", "P23", "P24", "P25", "P26", "P27", "P28", "P29", "P30",
	"P31", "P32", "P33", "P34_1", "P34_2", "P34_3", "P34_4", "P34_5", "P34_6",
	"P34_7", "P35_2", "P35_3", "P35_4", "P35_1", "P35_5", "P35_6", "P36", "P37_2",
	"P37_3", "P37_1", "P37_4", "P37_5", "P37_6", "P38_1", "P38_2", "P38_3", "P38_4",
	"P38_5", "P38_6", "P38_7", "P39", "P40", "P41_1", "P41_2", "P41_3", "P41_4",
	"P41_5", "P41_6", "P41_7", "P41_8", "P41_9", "P41_10", "P41_11", "P42", "IDADE",
	"P44", "P45", "P46", "P47", "P48", "ID", "EMP", "FONE", "P52", "audios_urls",
}
