package bot

import (
	"cntech-bot/app/generator"
)

type formKind int

const (
	formVacancy formKind = iota
	formAd
	formFreeform
)

// formState tracks one in-progress submission per admin chat. In-memory
// only; a restart drops unfinished forms.
type formState struct {
	kind       formKind
	step       int
	vacancy    generator.VacancyData
	ad         generator.AdData
	preview    string
	confirming bool
}

type formStep struct {
	prompt string
	assign func(*formState, string)
}

var vacancySteps = []formStep{
	{"**Шаг 1/9:** Введите название позиции\nНапример: *Senior Go Developer*",
		func(f *formState, v string) { f.vacancy.Position = v }},
	{"**Шаг 2/9:** Введите название компании\nНапример: *TechCorp Beijing*",
		func(f *formState, v string) { f.vacancy.Company = v }},
	{"**Шаг 3/9:** Введите локацию\nНапример: *Шанхай, Пудун* или *Пекин (удаленно)*",
		func(f *formState, v string) { f.vacancy.Location = v }},
	{"**Шаг 4/9:** Введите зарплату\nНапример: *25,000-35,000 RMB* или *Обсуждается*",
		func(f *formState, v string) { f.vacancy.Salary = v }},
	{"**Шаг 5/9:** Введите требуемый опыт\nНапример: *3+ года* или *Middle/Senior*",
		func(f *formState, v string) { f.vacancy.Experience = v }},
	{"**Шаг 6/9:** Введите описание вакансии\nОпишите основные задачи и проект",
		func(f *formState, v string) { f.vacancy.Description = v }},
	{"**Шаг 7/9:** Введите требования\nНапример: *Go, PostgreSQL, опыт с микросервисами*",
		func(f *formState, v string) { f.vacancy.Requirements = v }},
	{"**Шаг 8/9:** Введите условия и бенефиты\nНапример: *Релокация, медстраховка, обучение китайскому*",
		func(f *formState, v string) { f.vacancy.Benefits = v }},
	{"**Шаг 9/9:** Введите контактную информацию\nНапример: *@hr_username* или *hr@company.com*",
		func(f *formState, v string) { f.vacancy.Contact = v }},
}

var adSteps = []formStep{
	{"**Шаг 1/6:** Введите заголовок\nНапример: *Курс по Go со скидкой 30%*",
		func(f *formState, v string) { f.ad.Title = v }},
	{"**Шаг 2/6:** Введите бренд или компанию",
		func(f *formState, v string) { f.ad.Brand = v }},
	{"**Шаг 3/6:** Введите описание предложения",
		func(f *formState, v string) { f.ad.Description = v }},
	{"**Шаг 4/6:** Введите оффер (скидка, промокод, условия)",
		func(f *formState, v string) { f.ad.Offer = v }},
	{"**Шаг 5/6:** Введите ссылку",
		func(f *formState, v string) { f.ad.Link = v }},
	{"**Шаг 6/6:** Введите контактную информацию",
		func(f *formState, v string) { f.ad.Contact = v }},
}

func (f *formState) steps() []formStep {
	if f.kind == formAd {
		return adSteps
	}
	return vacancySteps
}
