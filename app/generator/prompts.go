package generator

// Prompt templates. All channel output is Russian regardless of the source
// language, so the instructions are written in Russian as well.

const articlePromptTemplate = `Переведи и переформулируй новость на русский язык, сделай развернутый пост.

Исходные данные:
Заголовок: %s
Источник: %s
Описание: %s

Требования к тексту:
- Язык: русский (если исходные данные на английском — переведи)
- Объем: до %d символов (не превышай лимит)
- Стиль: информативный, нейтральный, без клише и воды
- Сохраняй факты, цифры, названия компаний, дат и продуктов
- Дай краткий контекст и объясни значимость для китайского IT-рынка
- Без прямых ссылок, без хештегов, без эмодзи
- НЕ добавляй заголовки разделов
- Заверши на полном предложении, без обрыва

Выведи только сам текст поста (без префиксов и комментариев).`

const digestPromptTemplate = `Создай краткий дайджест новостей о технологиях и IT в Китае на русском языке.

Исходные статьи:
%s

Требования к дайджесту:
- Объем: 150-200 слов
- Язык: русский
- Стиль: информативный, профессиональный
- Структура: краткое введение + основные тренды/новости + заключение
- Включи 2-3 самые важные новости
- Добавь релевантные хештеги в конце (#КитайТех #IT #Технологии)
- НЕ включай прямые ссылки в текст

Дайджест:`

const vacancyPromptTemplate = `Преобразуй описание вакансии в профессиональный и привлекательный текст на русском языке.

Исходный текст:
%s

Требования:
- Ясная структура: роль, задачи, требования, условия, контакт
- Тон: деловой, дружелюбный, без клише
- Объем: 120-180 слов
- Без эмодзи и хештегов

Выведи только финальный текст вакансии:`

const adPromptTemplate = `Сформируй убедительный рекламный пост на русском языке.

Исходные данные:
Заголовок: %s
Бренд: %s
Описание: %s
Оффер: %s
Ссылка: %s
Контакт: %s

Требования к тексту:
- Короткий цепляющий лид, далее 2-3 абзаца
- Ясная структура: что это, выгоды/оффер, призыв к действию
- Тон: дружелюбный, профессиональный, без чрезмерных клише
- Объем: 90-140 слов
- Без эмодзи и хештегов

Выведи только финальный текст поста:`

const normalizeVacancyPromptTemplate = `Ты структурируешь вакансии из свободного текста.

Исходный текст вакансии:
%s

Задача:
- Извлеки ключевые поля: Позиция, Компания, Локация, Зарплата, Опыт, Описание/задачи, Требования, Условия, Контакт
- Найди URL (http/https) в тексте и добавь в конце строку: "🔗 Ссылка: <url>"
- Если URL не найден, НЕ добавляй строку "Ссылка"
- Пиши по-русски, деловой тон, без воды и клише
- Формат вывода ДОЛЖЕН строго соответствовать меткам:
  🧑‍💻 Позиция: ...
  🏢 Компания: ...
  📍 Локация: ...
  💰 Зарплата: ...
  🧪 Опыт: ...
  📝 Описание: ...
  ✅ Требования: ...
  🎁 Условия: ...
  📬 Контакт: ...
  🔗 Ссылка: ...   (только если нашёл URL)
- Опускай пустые разделы, если данных нет
- Не добавляй никаких других комментариев или заголовков

Выведи только финальный структурированный текст в указанном формате.`
