package script

// Example returns a short bilingual demo script: each host delivers a
// line in English, then repeats it in Indonesian, which exercises both
// synthesis providers and the emotion markers in one run
func Example() *Script {
	return &Script{
		Version: "1.0",
		Title:   "Myths about learning English",
		Cast:    DefaultCast(),
		Lines: []Line{
			{
				Text:     "Hey everyone! [laugh] Hahaha, welcome back to the podcast! I'm your host Reza, and today we're going to talk about the myths and facts about learning English.",
				Language: "en",
			},
			{
				Text:     "Halo semuanya! [laugh] Hahaha, selamat datang kembali di podcast! Saya host Reza, dan hari ini kita akan membahas mitos dan fakta tentang belajar Bahasa Inggris.",
				Language: "id",
			},
			{
				Text:     "Hello! [excited] Wohoo, I'm so happy to be here! Can't wait to dive into all these myths and clear things up for you guys.",
				Language: "en",
			},
			{
				Text:     "Halo! [excited] Wohoo, saya sangat senang bisa berada di sini! Gak sabar untuk membahas semua mitos ini dan menjelaskannya untuk kalian semua.",
				Language: "id",
			},
			{
				Text:     "So, let's start with the first myth: 'You have to be fluent in English before you can start speaking.' What do you think about that?",
				Language: "en",
			},
			{
				Text:     "Jadi, mari kita mulai dengan mitos pertama: 'Kamu harus fasih berbahasa Inggris sebelum bisa mulai berbicara.' Menurut kamu bagaimana?",
				Language: "id",
			},
			{
				Text:     "[laugh] Hahaha, that's such a common myth! You can totally start speaking English from day one. [surprise] Wow, mistakes are part of the learning process!",
				Language: "en",
			},
			{
				Text:     "[laugh] Hahaha, itu mitos yang sangat umum! Kamu bisa mulai berbicara Bahasa Inggris sejak hari pertama. [surprise] Wow, kesalahan itu bagian dari proses belajar!",
				Language: "id",
			},
		},
	}
}
