package intake

import "fmt"

// User-facing prompts of the intake flow.
const (
	textGreeting = "🤖 Добрый день, мы рады вас видеть.\n" +
		"Хотите продать или купить автомобиль?"

	textAskNameSell = "🤖 Хорошо, сейчас оценим, а пока давайте познакомимся.\n" +
		"Как вас зовут?"
	textAskNameBuy = "🤖 Хорошо. Давайте познакомимся.\n" +
		"Как вас зовут?"

	textAskPhone = "Укажите ваш номер телефона или нажмите внизу 👇\n" +
		"\"Отправить свой контакт ☎️\""
	textBadPhone = "Неверный формат номера, повторите ввод."

	textAskMedia = "🤖 Прикрепите фото, видео или документы по автомобилю."
	textMediaOnly = "🤖 Ожидаю вложение: фото, видео или документ."
	textMediaDecision = "🤖 Добавить ещё вложения или отправить заявку?"
	textAskMoreMedia = "🤖 Хорошо, отправьте ещё вложения."

	textThanksSell = "🤖 Благодарю, специалист свяжется с вами в ближайшее время и озвучит сумму," +
		" за которую мы готовы купить ваш автомобиль, а пока вступайте в наш канал," +
		" чтобы познакомиться поближе"
	textThanksBuy = "🤖 Благодарю за обращение, мы свяжемся с вами для консультации в ближайшее время," +
		" а пока вступайте в наш канал, чтобы познакомиться поближе"
)

func textAskRequestBuy(name string) string {
	return fmt.Sprintf("🤖 Очень приятно, %s. "+
		"Опишите параметры интересующего автомобиля - марка, модель, бюджет.", name)
}

func textAskRequestSell(name string) string {
	return fmt.Sprintf("🤖 Очень приятно, %s. "+
		"Какой у вас автомобиль? Марка, год, пробег, пожелание по цене", name)
}
