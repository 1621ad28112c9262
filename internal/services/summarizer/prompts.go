package summarizer

import (
	"encoding/json"
	"strings"
)

// Editor prompts for the daily digest; data, not logic

const digestPrompt = `Ты — редактор ежедневного дайджеста чата. Вход — только список сообщений с авторами и ответами.
Задача: выдать структурированный JSON с максимальной пользой для читателя утреннего дайджеста.

Требования к полям:
- discussions: выдели ключевые обсуждения. Для каждого:
  - topic: краткое название темы
  - question: главный вопрос обсуждения
  - participants: основные участники чётко по авторам сообщений (используй @username или «Имя Фамилия (@username)», если доступно во входе; не используй числовые id)
  - outcome: конкретный итог. Если есть предложения/решения — перечисли кратко и добавь релевантные ссылки ИЗ сообщений inline. Не пиши просто «открыт». Если итог не финальный — сформулируй текущее предложенное решение/направление.
- resources: верни пустой массив [] (ссылки давай только inline в outcome по месту).
- unanswered_questions: верни пустой массив [].
- stats: только вычислимые метрики из входных данных (messages_count, participants_count).
- insights: краткие сигналы/тренды, если явно следуют из сообщений; иначе пустой массив.

Правила:
- Только факты из входных сообщений. Никаких внешних знаний и догадок.
- Участники — строго из авторов сообщений.
- Ссылки — только из текста сообщений и только в контексте соответствующего outcome.
- Возвращай РОВНО один JSON-объект без markdown и без дополнительных полей.`

const insightsPrompt = `Ты — аналитик чата. Тебе передают только список сообщений за окно времени.
Задача: кратко сформулировать «Инсайты дня» — ключевые темы, выводы, нерешённые вопросы, важные ссылки. Никаких домыслов вне входных сообщений.
Правила:
- Используй только факты и формулировки, которые явно следуют из сообщений.
- Если чего-то мало/нет — не выдумывай.
- Пиши кратко, по делу. Можно использовать маркеры/подзаголовки. Вывод — обычный текст/Markdown, помещающийся в одно Telegram-сообщение (целись в 800–1200 символов).`

// buildDigestInput renders the user message for a digest generation
func buildDigestInput(in Input) string {
	payload, _ := json.Marshal(in)
	return strings.Join([]string{
		"Дата отчёта: " + in.Date + ", окно: " + in.WindowUTC[0] + " — " + in.WindowUTC[1] + ".",
		"Входные данные (только сообщения):",
		"```",
		string(payload),
		"```",
		"Верни РОВНО один JSON-объект по схеме (без markdown и без дополнительных полей).",
		"Все ссылки и факты бери исключительно из входных сообщений.",
	}, "\n")
}

// buildInsightsInput renders the user message for a free-form insights call
func buildInsightsInput(in Input) string {
	payload, _ := json.Marshal(in)
	return strings.Join([]string{
		"Дата отчёта: " + in.Date + ", окно: " + in.WindowUTC[0] + " — " + in.WindowUTC[1] + ".",
		"Входные данные (только сообщения):",
		"```",
		string(payload),
		"```",
		"Сформулируй «Утренний дайджест»:",
		"- Что решили/сделали: 3–7 пунктов с конкретными результатами и ссылками, если были; укажи ключевых участников (@username).",
		"- Ключевые обсуждения: 2–5 тем, по 1–2 строки каждая: суть, главный вопрос, участники, предложенные решения/ссылки.",
		"Требования: только по входным сообщениям; без JSON; 800–1200 символов.",
	}, "\n")
}
