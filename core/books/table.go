package books

// canon is the canonical book table: Protestant Old Testament (1-39),
// Deuterocanon (40-55) and New Testament (56-82).
//
// Abbreviations are lower-case and carry no trailing dots; the matcher
// accepts an optional dot after them.
var canon = []Book{
	// Old Testament
	{Name: "Genesis", Slug: "genesis", Order: 1, Chapters: 50, Abbrevs: []string{"gen", "gn"}},
	{Name: "Exodus", Slug: "exodus", Order: 2, Chapters: 40, Abbrevs: []string{"exod", "exo"}},
	{Name: "Leviticus", Slug: "leviticus", Order: 3, Chapters: 27, Abbrevs: []string{"lev", "lv"}},
	{Name: "Numbers", Slug: "numbers", Order: 4, Chapters: 36, Abbrevs: []string{"num", "numb"}},
	{Name: "Deuteronomy", Slug: "deuteronomy", Order: 5, Chapters: 34, Abbrevs: []string{"deut", "deu", "dt"}},
	{Name: "Joshua", Slug: "joshua", Order: 6, Chapters: 24, Abbrevs: []string{"josh", "jos"}},
	{Name: "Judges", Slug: "judges", Order: 7, Chapters: 21, Abbrevs: []string{"judg", "jdg", "jdgs"}},
	{Name: "Ruth", Slug: "ruth", Order: 8, Chapters: 4, Abbrevs: []string{"rth"}},
	{Name: "1 Samuel", Slug: "1-samuel", Order: 9, Chapters: 31, Abbrevs: []string{"1 sam", "1sam", "1 sa", "1sa", "i sam", "i sa"}},
	{Name: "2 Samuel", Slug: "2-samuel", Order: 10, Chapters: 24, Abbrevs: []string{"2 sam", "2sam", "2 sa", "2sa", "ii sam", "ii sa"}},
	{Name: "1 Kings", Slug: "1-kings", Order: 11, Chapters: 22, Abbrevs: []string{"1 kgs", "1kgs", "1 ki", "1ki", "i kgs", "i ki"}},
	{Name: "2 Kings", Slug: "2-kings", Order: 12, Chapters: 25, Abbrevs: []string{"2 kgs", "2kgs", "2 ki", "2ki", "ii kgs", "ii ki"}},
	{Name: "1 Chronicles", Slug: "1-chronicles", Order: 13, Chapters: 29, Abbrevs: []string{"1 chr", "1chr", "1 chron", "1chron", "i chr", "i chron"}},
	{Name: "2 Chronicles", Slug: "2-chronicles", Order: 14, Chapters: 36, Abbrevs: []string{"2 chr", "2chr", "2 chron", "2chron", "ii chr", "ii chron"}},
	{Name: "Ezra", Slug: "ezra", Order: 15, Chapters: 10, Abbrevs: []string{"ezra", "ezr"}},
	{Name: "Nehemiah", Slug: "nehemiah", Order: 16, Chapters: 13, Abbrevs: []string{"neh"}},
	{Name: "Esther", Slug: "esther", Order: 17, Chapters: 10, Abbrevs: []string{"esth", "est"}},
	{Name: "Job", Slug: "job", Order: 18, Chapters: 42, Abbrevs: []string{"job"}},
	{Name: "Psalms", Slug: "psalms", Order: 19, Chapters: 150, Abbrevs: []string{"ps", "pss", "psa", "psalm", "psalms"}},
	{Name: "Proverbs", Slug: "proverbs", Order: 20, Chapters: 31, Abbrevs: []string{"prov", "pro", "prv"}},
	{Name: "Ecclesiastes", Slug: "ecclesiastes", Order: 21, Chapters: 12, Abbrevs: []string{"eccl", "eccles", "ecc", "qoh", "qoheleth"}},
	{Name: "Song of Solomon", Slug: "song-of-solomon", Order: 22, Chapters: 8, Abbrevs: []string{"song of sol", "song of songs", "canticles", "cant"}},
	{Name: "Isaiah", Slug: "isaiah", Order: 23, Chapters: 66, Abbrevs: []string{"isa"}},
	{Name: "Jeremiah", Slug: "jeremiah", Order: 24, Chapters: 52, Abbrevs: []string{"jer", "jr"}},
	{Name: "Lamentations", Slug: "lamentations", Order: 25, Chapters: 5, Abbrevs: []string{"lam"}},
	{Name: "Ezekiel", Slug: "ezekiel", Order: 26, Chapters: 48, Abbrevs: []string{"ezek", "ezk"}},
	{Name: "Daniel", Slug: "daniel", Order: 27, Chapters: 12, Abbrevs: []string{"dan", "dn"}},
	{Name: "Hosea", Slug: "hosea", Order: 28, Chapters: 14, Abbrevs: []string{"hos"}},
	{Name: "Joel", Slug: "joel", Order: 29, Chapters: 3, Abbrevs: []string{"joel"}},
	{Name: "Amos", Slug: "amos", Order: 30, Chapters: 9, Abbrevs: []string{"amos", "amo"}},
	{Name: "Obadiah", Slug: "obadiah", Order: 31, Chapters: 1, Abbrevs: []string{"obad", "oba"}},
	{Name: "Jonah", Slug: "jonah", Order: 32, Chapters: 4, Abbrevs: []string{"jonah", "jon", "jnh"}},
	{Name: "Micah", Slug: "micah", Order: 33, Chapters: 7, Abbrevs: []string{"mic"}},
	{Name: "Nahum", Slug: "nahum", Order: 34, Chapters: 3, Abbrevs: []string{"nah"}},
	{Name: "Habakkuk", Slug: "habakkuk", Order: 35, Chapters: 3, Abbrevs: []string{"hab"}},
	{Name: "Zephaniah", Slug: "zephaniah", Order: 36, Chapters: 3, Abbrevs: []string{"zeph", "zep"}},
	{Name: "Haggai", Slug: "haggai", Order: 37, Chapters: 2, Abbrevs: []string{"hag"}},
	{Name: "Zechariah", Slug: "zechariah", Order: 38, Chapters: 14, Abbrevs: []string{"zech", "zec"}},
	{Name: "Malachi", Slug: "malachi", Order: 39, Chapters: 4, Abbrevs: []string{"mal"}},

	// Deuterocanon / Apocrypha
	{Name: "Tobit", Slug: "tobit", Order: 40, Chapters: 14, Abbrevs: []string{"tob", "tobit"}},
	{Name: "Judith", Slug: "judith", Order: 41, Chapters: 16, Abbrevs: []string{"jdt", "judith"}},
	{Name: "1 Maccabees", Slug: "1-maccabees", Order: 42, Chapters: 16, Abbrevs: []string{"1 macc", "1macc", "1 mac", "1mac", "i macc", "i mac", "1 m"}},
	{Name: "2 Maccabees", Slug: "2-maccabees", Order: 43, Chapters: 15, Abbrevs: []string{"2 macc", "2macc", "2 mac", "2mac", "ii macc", "ii mac"}},
	{Name: "3 Maccabees", Slug: "3-maccabees", Order: 44, Chapters: 7, Abbrevs: []string{"3 macc", "3macc", "3 mac", "3mac", "iii macc", "iii mac"}},
	{Name: "4 Maccabees", Slug: "4-maccabees", Order: 45, Chapters: 18, Abbrevs: []string{"4 macc", "4macc", "4 mac", "4mac", "iv macc", "iv mac"}},
	{Name: "Wisdom of Solomon", Slug: "wisdom", Order: 46, Chapters: 19, Abbrevs: []string{"wis", "wisd", "wisdom of sol", "wisdom"}},
	{Name: "Sirach", Slug: "sirach", Order: 47, Chapters: 51, Abbrevs: []string{"sir", "sirach", "ecclus", "ecclesiasticus"}},
	{Name: "Baruch", Slug: "baruch", Order: 48, Chapters: 6, Abbrevs: []string{"bar", "baruch"}},
	{Name: "Letter of Jeremiah", Slug: "letter-of-jeremiah", Order: 49, Chapters: 1, Abbrevs: []string{"let jer", "ep jer", "epistle of jer"}},
	{Name: "Prayer of Azariah", Slug: "prayer-of-azariah", Order: 50, Chapters: 1, Abbrevs: []string{"pr azar", "sg three", "song of three"}},
	{Name: "Susanna", Slug: "susanna", Order: 51, Chapters: 1, Abbrevs: []string{"susanna"}},
	{Name: "Bel and the Dragon", Slug: "bel", Order: 52, Chapters: 1, Abbrevs: []string{"bel", "bel and dragon"}},
	{Name: "Prayer of Manasseh", Slug: "prayer-of-manasseh", Order: 53, Chapters: 1, Abbrevs: []string{"pr man", "prayer of man"}},
	{Name: "1 Esdras", Slug: "1-esdras", Order: 54, Chapters: 9, Abbrevs: []string{"1 esd", "1esd", "i esd", "3 ezra"}},
	{Name: "2 Esdras", Slug: "2-esdras", Order: 55, Chapters: 16, Abbrevs: []string{"2 esd", "2esd", "ii esd", "4 ezra"}},

	// New Testament
	{Name: "Matthew", Slug: "matthew", Order: 56, Chapters: 28, Abbrevs: []string{"matt", "mat", "mt"}},
	{Name: "Mark", Slug: "mark", Order: 57, Chapters: 16, Abbrevs: []string{"mark", "mar", "mrk", "mk"}},
	{Name: "Luke", Slug: "luke", Order: 58, Chapters: 24, Abbrevs: []string{"luke", "luk", "lk"}},
	{Name: "John", Slug: "john", Order: 59, Chapters: 21, Abbrevs: []string{"john", "joh", "jhn", "jn"}},
	{Name: "Acts", Slug: "acts", Order: 60, Chapters: 28, Abbrevs: []string{"acts", "act"}},
	{Name: "Romans", Slug: "romans", Order: 61, Chapters: 16, Abbrevs: []string{"rom", "ro", "rm"}},
	{Name: "1 Corinthians", Slug: "1-corinthians", Order: 62, Chapters: 16, Abbrevs: []string{"1 cor", "1cor", "i cor", "1 co", "1co"}},
	{Name: "2 Corinthians", Slug: "2-corinthians", Order: 63, Chapters: 13, Abbrevs: []string{"2 cor", "2cor", "ii cor", "2 co", "2co"}},
	{Name: "Galatians", Slug: "galatians", Order: 64, Chapters: 6, Abbrevs: []string{"gal", "ga"}},
	{Name: "Ephesians", Slug: "ephesians", Order: 65, Chapters: 6, Abbrevs: []string{"eph", "ephes"}},
	{Name: "Philippians", Slug: "philippians", Order: 66, Chapters: 4, Abbrevs: []string{"phil", "php", "pp"}},
	{Name: "Colossians", Slug: "colossians", Order: 67, Chapters: 4, Abbrevs: []string{"col"}},
	{Name: "1 Thessalonians", Slug: "1-thessalonians", Order: 68, Chapters: 5, Abbrevs: []string{"1 thess", "1thess", "1 thes", "1thes", "i thess", "i thes", "1 th"}},
	{Name: "2 Thessalonians", Slug: "2-thessalonians", Order: 69, Chapters: 3, Abbrevs: []string{"2 thess", "2thess", "2 thes", "2thes", "ii thess", "ii thes", "2 th"}},
	{Name: "1 Timothy", Slug: "1-timothy", Order: 70, Chapters: 6, Abbrevs: []string{"1 tim", "1tim", "i tim", "1 ti", "1ti"}},
	{Name: "2 Timothy", Slug: "2-timothy", Order: 71, Chapters: 4, Abbrevs: []string{"2 tim", "2tim", "ii tim", "2 ti", "2ti"}},
	{Name: "Titus", Slug: "titus", Order: 72, Chapters: 3, Abbrevs: []string{"tit", "ti"}},
	{Name: "Philemon", Slug: "philemon", Order: 73, Chapters: 1, Abbrevs: []string{"phlm", "phm", "philem"}},
	{Name: "Hebrews", Slug: "hebrews", Order: 74, Chapters: 13, Abbrevs: []string{"heb"}},
	{Name: "James", Slug: "james", Order: 75, Chapters: 5, Abbrevs: []string{"jas", "jam", "jm"}},
	{Name: "1 Peter", Slug: "1-peter", Order: 76, Chapters: 5, Abbrevs: []string{"1 pet", "1pet", "1 pe", "1pe", "i pet", "i pe", "1 pt", "1pt"}},
	{Name: "2 Peter", Slug: "2-peter", Order: 77, Chapters: 3, Abbrevs: []string{"2 pet", "2pet", "2 pe", "2pe", "ii pet", "ii pe", "2 pt", "2pt"}},
	{Name: "1 John", Slug: "1-john", Order: 78, Chapters: 5, Abbrevs: []string{"1 john", "1john", "1 jn", "1jn", "i john", "i jn", "1 jo", "1jo"}},
	{Name: "2 John", Slug: "2-john", Order: 79, Chapters: 1, Abbrevs: []string{"2 john", "2john", "2 jn", "2jn", "ii john", "ii jn"}},
	{Name: "3 John", Slug: "3-john", Order: 80, Chapters: 1, Abbrevs: []string{"3 john", "3john", "3 jn", "3jn", "iii john", "iii jn"}},
	{Name: "Jude", Slug: "jude", Order: 81, Chapters: 1, Abbrevs: []string{"jude", "jud"}},
	{Name: "Revelation", Slug: "revelation", Order: 82, Chapters: 22, Abbrevs: []string{"rev", "the revelation", "apocalypse", "apoc"}},
}

// variants are alternate full-name spellings found in ThML payloads,
// keyed by canonical slug.
var variants = map[string][]string{
	"psalms":          {"psalm"},
	"song-of-solomon": {"song of songs", "canticle of canticles"},
	"revelation":      {"revelations", "apocalypse"},
}
