package lang

type MessageID string

const (
	StartMsgID                     MessageID = "start"
	SubscriptionRequiredMsgID      MessageID = "subscription_required"
	SubscriptionRequiredAlertMsgID MessageID = "subscription_required_alert"
	SubscribeButtonMsgID           MessageID = "subscribe_button"

	LinkPromptMsgID           MessageID = "link_prompt"
	UnsupportedPlatformsMsgID MessageID = "unsupported_platforms"
	DownloadingMsgID          MessageID = "downloading"
	DownloadingFileMsgID      MessageID = "downloading_file"
	DownloadProgressMsgID     MessageID = "download_progress"
	CompressingMsgID          MessageID = "compressing"
	UploadingMsgID            MessageID = "uploading"
	DownloadFailedMsgID       MessageID = "download_failed"
	DownloadTimeoutMsgID      MessageID = "download_timeout"
	FileTooLargeMsgID         MessageID = "file_too_large"
	NetworkErrorMsgID         MessageID = "network_error"
	CarouselErrorMsgID        MessageID = "carousel_error"
	FileNotFoundMsgID         MessageID = "file_not_found"
	LinkExpiredMsgID          MessageID = "link_expired"
	BotDetectedMsgID          MessageID = "bot_detected"
	LoginRequiredMsgID        MessageID = "login_required"
	NoMediaFoundMsgID         MessageID = "no_media_found"
	RateLimitedMsgID          MessageID = "rate_limited"

	ConvertButtonMsgID            MessageID = "convert_button"
	ConvertMenuMsgID              MessageID = "convert_menu"
	ConvertButtonNoteMsgID        MessageID = "convert_button_note"
	ConvertButtonVoiceMsgID       MessageID = "convert_button_voice"
	ConvertButtonMP3MsgID         MessageID = "convert_button_mp3"
	ConvertButtonFileMsgID        MessageID = "convert_button_file"
	ConvertButtonTranscribeMsgID  MessageID = "convert_button_transcribe"
	ConvertLabelNoteMsgID         MessageID = "convert_label_note"
	ConvertLabelVoiceMsgID        MessageID = "convert_label_voice"
	ConvertLabelMP3MsgID          MessageID = "convert_label_mp3"
	ConvertLabelTranscribeMsgID   MessageID = "convert_label_transcribe"
	ConversionStartedMsgID        MessageID = "conversion_started"
	ConvertingMsgID               MessageID = "converting"
	ConversionFailedMsgID         MessageID = "conversion_failed"
	SendingFileMsgID              MessageID = "sending_file"
	FileSendFailedMsgID           MessageID = "file_send_failed"
	FileDownloadFailedMsgID       MessageID = "file_download_failed"
	ExtractingAudioMsgID          MessageID = "extracting_audio"
	AudioExtractionFailedMsgID    MessageID = "audio_extraction_failed"
	TranscribingMsgID             MessageID = "transcribing"
	TranscriptionFailedMsgID      MessageID = "transcription_failed"
	TranscriptionHeaderMsgID      MessageID = "transcription_header"
	TranscriptionBatchHeaderMsgID MessageID = "transcription_batch_header"
	TranscriptionContinuedMsgID   MessageID = "transcription_continued"

	SummaryButtonMsgID        MessageID = "summary_button"
	BatchSummaryButtonMsgID   MessageID = "batch_summary_button"
	SummaryProgressMsgID      MessageID = "summary_progress"
	SummaryHeaderMsgID        MessageID = "summary_header"
	BatchSummaryHeaderMsgID   MessageID = "batch_summary_header"
	SummaryFailedMsgID        MessageID = "summary_failed"
	SummaryTextNotFoundMsgID  MessageID = "summary_text_not_found"
	SummaryEmptyResponseMsgID MessageID = "summary_empty_response"

	QRUsageMsgID   MessageID = "qr_usage"
	QRTooLongMsgID MessageID = "qr_too_long"
	QRCaptionMsgID MessageID = "qr_caption"
	QRDecodedMsgID MessageID = "qr_decoded"
	QRErrorMsgID   MessageID = "qr_error"

	VoiceBatchProcessingMsgID   MessageID = "voice_batch_processing"
	VoiceBatchDownloadingMsgID  MessageID = "voice_batch_downloading"
	VoiceBatchTranscribingMsgID MessageID = "voice_batch_transcribing"
	VoiceBatchMergingMsgID      MessageID = "voice_batch_merging"
	VoiceBatchDoneMsgID         MessageID = "voice_batch_done"
	VoiceBatchFailedMsgID       MessageID = "voice_batch_failed"
	VoiceLabelMsgID             MessageID = "voice_label"
	VideoNoteLabelMsgID         MessageID = "video_note_label"

	FileReceivedMsgID MessageID = "file_received"

	InlineSubscribeTitleMsgID MessageID = "inline_subscribe_title"
	InlineSubscribeTextMsgID  MessageID = "inline_subscribe_text"
	InlineQRTitleMsgID        MessageID = "inline_qr_title"
	InlineQRErrorTitleMsgID   MessageID = "inline_qr_error_title"
	InlineQRInvalidTitleMsgID MessageID = "inline_qr_invalid_title"
	InlineQRInvalidTextMsgID  MessageID = "inline_qr_invalid_text"
	InlineDownloadTitleMsgID  MessageID = "inline_download_title"
	InlineVideoTitleMsgID     MessageID = "inline_video_title"
	InlinePhotoTitleMsgID     MessageID = "inline_photo_title"
	InlineAudioTitleMsgID     MessageID = "inline_audio_title"
	InlinePreparingMsgID      MessageID = "inline_preparing"

	CarouselLabelMsgID     MessageID = "carousel_label"
	APICachedDeliveryMsgID MessageID = "api_cached_delivery"
	APIFreshDeliveryMsgID  MessageID = "api_fresh_delivery"
	APIUploadHintMsgID     MessageID = "api_upload_hint"
)

var messages = map[MessageID]map[string]string{
	StartMsgID: {
		"ru": "👋 привет! отправь мне ссылки на Instagram, TikTok, YouTube или SoundCloud и я их скачаю!\n" +
			"можно отправить несколько ссылок в одном сообщении!\n\n" +
			"🎬 также я умею конвертировать:\n" +
			"   + видео/аудио в видеокружок\n" +
			"   + видео/аудио в голосовое сообщение\n" +
			"   + видео в MP3\n" +
			"   + голосовые/видеокружки в текст (расшифровка)\n" +
			"   + видео/аудио в текст (расшифровка)\n" +
			"   + создавать краткое содержание (саммари)\n\n" +
			"📱 создаю qr-коды - используй команду /qr (текст)\n" +
			"📷 расшифровываю qr-коды - отправь фото с qr-кодом\n\n" +
			"🔎 или используй в любом чате: @%s ссылка\n" +
			"🌐 веб-версия: https://downloader.dreampartners.online",
		"en": "👋 hi! send me Instagram, TikTok, YouTube or SoundCloud links and I will download them!\n" +
			"you can put several links into one message!\n\n" +
			"🎬 I can also convert:\n" +
			"   + video/audio to a video note\n" +
			"   + video/audio to a voice message\n" +
			"   + video to MP3\n" +
			"   + voice/video notes to text (transcription)\n" +
			"   + video/audio to text (transcription)\n" +
			"   + make short summaries\n\n" +
			"📱 I make qr codes - use /qr (text)\n" +
			"📷 I read qr codes - send a photo with one\n\n" +
			"🔎 or use me inline in any chat: @%s link\n" +
			"🌐 web version: https://downloader.dreampartners.online",
	},
	SubscriptionRequiredMsgID: {
		"ru": "👋 для использования бота нужно подписаться на канал:",
		"en": "👋 subscribe to the channel to use the bot:",
	},
	SubscriptionRequiredAlertMsgID: {
		"ru": "❌ Подпишитесь на канал для использования бота",
		"en": "❌ Subscribe to the channel to use the bot",
	},
	SubscribeButtonMsgID: {
		"ru": "подписаться",
		"en": "subscribe",
	},
	LinkPromptMsgID: {
		"ru": "📎 отправь мне ссылку из поддерживаемых мною платформ",
		"en": "📎 send me a link from a platform I support",
	},
	UnsupportedPlatformsMsgID: {
		"ru": "📎 отправь ссылку из поддерживаемых мною платформ:\n\n" +
			"📱 Instagram (посты, reels, stories, tv)\n" +
			"🎵 TikTok\n" +
			"🎥 YouTube (видео и shorts)\n" +
			"🎵 SoundCloud",
		"en": "📎 send a link from a platform I support:\n\n" +
			"📱 Instagram (posts, reels, stories, tv)\n" +
			"🎵 TikTok\n" +
			"🎥 YouTube (videos and shorts)\n" +
			"🎵 SoundCloud",
	},
	DownloadingMsgID: {
		"ru": "⏳ Скачиваю...",
		"en": "⏳ Downloading...",
	},
	DownloadingFileMsgID: {
		"ru": "⏳ Скачиваю файл...",
		"en": "⏳ Downloading the file...",
	},
	DownloadProgressMsgID: {
		"ru": "⏳ Скачиваю... %d%%",
		"en": "⏳ Downloading... %d%%",
	},
	CompressingMsgID: {
		"ru": "⏳ Видео больше 50МБ, сжимаю...",
		"en": "⏳ Video is over 50MB, compressing...",
	},
	UploadingMsgID: {
		"ru": "⏳ Отправляю...",
		"en": "⏳ Uploading...",
	},
	DownloadFailedMsgID: {
		"ru": "❌ Не удалось скачать: %s",
		"en": "❌ Download failed: %s",
	},
	DownloadTimeoutMsgID: {
		"ru": "❌ Таймаут: файл не был скачан за отведённое время",
		"en": "❌ Timeout: the file was not downloaded in time",
	},
	FileTooLargeMsgID: {
		"ru": "❌ Файл слишком большой для отправки в Telegram.",
		"en": "❌ The file is too large to send through Telegram.",
	},
	NetworkErrorMsgID: {
		"ru": "❌ Ошибка сети при отправке файла. Попробуйте позже.",
		"en": "❌ Network error while sending the file. Try again later.",
	},
	CarouselErrorMsgID: {
		"ru": "❌ Ошибка при отправке карусели.",
		"en": "❌ Failed to send the carousel.",
	},
	FileNotFoundMsgID: {
		"ru": "❌ Файл не найден",
		"en": "❌ File not found",
	},
	LinkExpiredMsgID: {
		"ru": "❌ Файл не найден или ссылка устарела.",
		"en": "❌ File not found or the link has expired.",
	},
	BotDetectedMsgID: {
		"ru": "❌ Источник запросил проверку человеком. Попробуйте позже.",
		"en": "❌ The source asked for human verification. Try again later.",
	},
	LoginRequiredMsgID: {
		"ru": "❌ Контент доступен только авторизованным пользователям.",
		"en": "❌ This content requires a logged-in account.",
	},
	NoMediaFoundMsgID: {
		"ru": "❌ По ссылке не найдено медиа.",
		"en": "❌ No media found at this link.",
	},
	RateLimitedMsgID: {
		"ru": "⏳ Слишком много запросов, подождите немного",
		"en": "⏳ Too many requests, please wait a bit",
	},
	ConvertButtonMsgID: {
		"ru": "конвертировать",
		"en": "convert",
	},
	ConvertMenuMsgID: {
		"ru": "🎬 Выбери тип конвертации:",
		"en": "🎬 Choose a conversion type:",
	},
	ConvertButtonNoteMsgID: {
		"ru": "видеокружок",
		"en": "video note",
	},
	ConvertButtonVoiceMsgID: {
		"ru": "голосовое",
		"en": "voice",
	},
	ConvertButtonMP3MsgID: {
		"ru": "мп3",
		"en": "mp3",
	},
	ConvertButtonFileMsgID: {
		"ru": "получить файл",
		"en": "get the file",
	},
	ConvertButtonTranscribeMsgID: {
		"ru": "расшифровка",
		"en": "transcribe",
	},
	ConvertLabelNoteMsgID: {
		"ru": "видеокружок",
		"en": "a video note",
	},
	ConvertLabelVoiceMsgID: {
		"ru": "голосовое",
		"en": "a voice message",
	},
	ConvertLabelMP3MsgID: {
		"ru": "аудиофайл",
		"en": "an audio file",
	},
	ConvertLabelTranscribeMsgID: {
		"ru": "расшифровку",
		"en": "a transcript",
	},
	ConversionStartedMsgID: {
		"ru": "Начинаю конвертацию в %s...",
		"en": "Starting conversion to %s...",
	},
	ConvertingMsgID: {
		"ru": "⏳ Конвертирую в %s...",
		"en": "⏳ Converting to %s...",
	},
	ConversionFailedMsgID: {
		"ru": "❌ Ошибка конвертации",
		"en": "❌ Conversion failed",
	},
	SendingFileMsgID: {
		"ru": "📹 Отправляю файл...",
		"en": "📹 Sending the file...",
	},
	FileSendFailedMsgID: {
		"ru": "❌ Ошибка при отправке файла",
		"en": "❌ Failed to send the file",
	},
	FileDownloadFailedMsgID: {
		"ru": "❌ Ошибка при скачивании файла",
		"en": "❌ Failed to download the file",
	},
	ExtractingAudioMsgID: {
		"ru": "⏳ Извлекаю аудио...",
		"en": "⏳ Extracting audio...",
	},
	AudioExtractionFailedMsgID: {
		"ru": "❌ Не удалось извлечь аудио",
		"en": "❌ Failed to extract audio",
	},
	TranscribingMsgID: {
		"ru": "⏳ Расшифровываю аудио...",
		"en": "⏳ Transcribing audio...",
	},
	TranscriptionFailedMsgID: {
		"ru": "❌ Не удалось распознать речь",
		"en": "❌ Could not recognize any speech",
	},
	TranscriptionHeaderMsgID: {
		"ru": "<b>📝 Расшифровка:</b>\n%s",
		"en": "<b>📝 Transcription:</b>\n%s",
	},
	TranscriptionBatchHeaderMsgID: {
		"ru": "<b>📝 Расшифровка %s:</b>\n%s",
		"en": "<b>📝 Transcription of %s:</b>\n%s",
	},
	TranscriptionContinuedMsgID: {
		"ru": "<b>📝 Расшифровка (продолжение):</b>\n%s",
		"en": "<b>📝 Transcription (continued):</b>\n%s",
	},
	SummaryButtonMsgID: {
		"ru": "саммари",
		"en": "summary",
	},
	BatchSummaryButtonMsgID: {
		"ru": "общее саммари",
		"en": "combined summary",
	},
	SummaryProgressMsgID: {
		"ru": "📝 Делаю саммари...",
		"en": "📝 Making a summary...",
	},
	SummaryHeaderMsgID: {
		"ru": "<b>📝 Саммари:</b>\n\n%s",
		"en": "<b>📝 Summary:</b>\n\n%s",
	},
	BatchSummaryHeaderMsgID: {
		"ru": "<b>📝 Общий саммари (%s):</b>\n\n%s",
		"en": "<b>📝 Combined summary (%s):</b>\n\n%s",
	},
	SummaryFailedMsgID: {
		"ru": "❌ Ошибка при создании саммари",
		"en": "❌ Failed to make a summary",
	},
	SummaryTextNotFoundMsgID: {
		"ru": "❌ Не удалось найти текст для саммари",
		"en": "❌ No text found to summarize",
	},
	SummaryEmptyResponseMsgID: {
		"ru": "❌ Получен пустой ответ от модели",
		"en": "❌ The model returned an empty response",
	},
	QRUsageMsgID: {
		"ru": "❌ укажите текст для qr-кода\n\nпример: /qr https://example.com",
		"en": "❌ provide text for the qr code\n\nexample: /qr https://example.com",
	},
	QRTooLongMsgID: {
		"ru": "❌ текст слишком длинный для qr-кода (максимум %d символов)",
		"en": "❌ the text is too long for a qr code (at most %d characters)",
	},
	QRCaptionMsgID: {
		"ru": "📱 qr-код для: %s",
		"en": "📱 qr code for: %s",
	},
	QRDecodedMsgID: {
		"ru": "📱 <b>QR-код расшифрован:</b>\n\n<code>%s</code>",
		"en": "📱 <b>QR code decoded:</b>\n\n<code>%s</code>",
	},
	QRErrorMsgID: {
		"ru": "❌ ошибка при создании qr-кода",
		"en": "❌ failed to make the qr code",
	},
	VoiceBatchProcessingMsgID: {
		"ru": "🎙️ Обрабатываю %d сообщений... [░░░░░░░░░░] 0%%",
		"en": "🎙️ Processing %d messages... [░░░░░░░░░░] 0%%",
	},
	VoiceBatchDownloadingMsgID: {
		"ru": "🎙️ Скачиваю %d файлов... [██░░░░░░░░] 20%%",
		"en": "🎙️ Downloading %d files... [██░░░░░░░░] 20%%",
	},
	VoiceBatchTranscribingMsgID: {
		"ru": "🎙️ Расшифровываю %d сообщений... [██████░░░░] 60%%",
		"en": "🎙️ Transcribing %d messages... [██████░░░░] 60%%",
	},
	VoiceBatchMergingMsgID: {
		"ru": "📝 Объединяю результаты... [████████░░] 80%%",
		"en": "📝 Merging the results... [████████░░] 80%%",
	},
	VoiceBatchDoneMsgID: {
		"ru": "✅ Обработка завершена! [██████████] 100%%",
		"en": "✅ Done! [██████████] 100%%",
	},
	VoiceBatchFailedMsgID: {
		"ru": "❌ Не удалось распознать речь ни в одном из сообщений. Попробуйте записать заново.",
		"en": "❌ Could not recognize speech in any of the messages. Try recording again.",
	},
	VoiceLabelMsgID: {
		"ru": "Голосовое",
		"en": "Voice message",
	},
	VideoNoteLabelMsgID: {
		"ru": "Видеосообщение",
		"en": "Video note",
	},
	FileReceivedMsgID: {
		"ru": "✅ Получил файл",
		"en": "✅ Got the file",
	},
	InlineSubscribeTitleMsgID: {
		"ru": "Подпишитесь на канал",
		"en": "Subscribe to the channel",
	},
	InlineSubscribeTextMsgID: {
		"ru": "Подпишитесь на канал @%s для использования бота",
		"en": "Subscribe to @%s to use the bot",
	},
	InlineQRTitleMsgID: {
		"ru": "📱 qr-код",
		"en": "📱 qr code",
	},
	InlineQRErrorTitleMsgID: {
		"ru": "❌ ошибка qr-кода",
		"en": "❌ qr code error",
	},
	InlineQRInvalidTitleMsgID: {
		"ru": "❌ неверный запрос qr",
		"en": "❌ invalid qr request",
	},
	InlineQRInvalidTextMsgID: {
		"ru": "❌ укажите текст для qr-кода после \"qr \"\nпример: @%s qr https://example.com",
		"en": "❌ put the qr code text after \"qr \"\nexample: @%s qr https://example.com",
	},
	InlineDownloadTitleMsgID: {
		"ru": "📥 скачать медиа",
		"en": "📥 download media",
	},
	InlineVideoTitleMsgID: {
		"ru": "Видео",
		"en": "Video",
	},
	InlinePhotoTitleMsgID: {
		"ru": "Фото",
		"en": "Photo",
	},
	InlineAudioTitleMsgID: {
		"ru": "Аудио",
		"en": "Audio",
	},
	InlinePreparingMsgID: {
		"ru": "⏳ скачиваю, попробуйте снова через минуту",
		"en": "⏳ downloading, try again in a minute",
	},
	CarouselLabelMsgID: {
		"ru": "Карусель: %d файлов",
		"en": "Carousel: %d files",
	},
	APICachedDeliveryMsgID: {
		"ru": "Файл скачан из кэша Telegram (быстро)",
		"en": "Delivered from the Telegram cache (fast)",
	},
	APIFreshDeliveryMsgID: {
		"ru": "Файл скачан с исходного сервиса",
		"en": "Downloaded from the source service",
	},
	APIUploadHintMsgID: {
		"ru": "Используйте эту ссылку для открытия файла в боте",
		"en": "Use this link to open the file in the bot",
	},
}
