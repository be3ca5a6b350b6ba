package swf

// TagCode identifies a tag in the movie tag stream (SWF19 numbering)
type TagCode uint16

const (
	TagEnd                  TagCode = 0
	TagShowFrame            TagCode = 1
	TagDefineShape          TagCode = 2
	TagPlaceObject          TagCode = 4
	TagRemoveObject         TagCode = 5
	TagDefineBits           TagCode = 6
	TagDefineButton         TagCode = 7
	TagJpegTables           TagCode = 8
	TagSetBackgroundColor   TagCode = 9
	TagDefineFont           TagCode = 10
	TagDefineText           TagCode = 11
	TagDoAction             TagCode = 12
	TagDefineFontInfo       TagCode = 13
	TagDefineSound          TagCode = 14
	TagStartSound           TagCode = 15
	TagDefineButtonSound    TagCode = 17
	TagSoundStreamHead      TagCode = 18
	TagSoundStreamBlock     TagCode = 19
	TagDefineBitsLossless   TagCode = 20
	TagDefineBitsJpeg2      TagCode = 21
	TagDefineShape2         TagCode = 22
	TagDefineButtonCxform   TagCode = 23
	TagProtect              TagCode = 24
	TagPlaceObject2         TagCode = 26
	TagRemoveObject2        TagCode = 28
	TagDefineShape3         TagCode = 32
	TagDefineText2          TagCode = 33
	TagDefineButton2        TagCode = 34
	TagDefineBitsJpeg3      TagCode = 35
	TagDefineBitsLossless2  TagCode = 36
	TagDefineEditText       TagCode = 37
	TagDefineSprite         TagCode = 39
	TagFrameLabel           TagCode = 43
	TagSoundStreamHead2     TagCode = 45
	TagDefineMorphShape     TagCode = 46
	TagDefineFont2          TagCode = 48
	TagExportAssets         TagCode = 56
	TagImportAssets         TagCode = 57
	TagDoInitAction         TagCode = 59
	TagDefineFontInfo2      TagCode = 62
	TagPlaceObject3         TagCode = 70
	TagImportAssets2        TagCode = 71
	TagDefineFont3          TagCode = 75
	TagDefineShape4         TagCode = 83
	TagDefineMorphShape2    TagCode = 84
	TagDefineBitsJpeg4      TagCode = 90
	TagDefineFont4          TagCode = 91
	TagPlaceObject4         TagCode = 94
)

// String returns a readable name for known tag codes
func (c TagCode) String() string {
	if name, ok := tagNames[c]; ok {
		return name
	}
	return "Unknown"
}

var tagNames = map[TagCode]string{
	TagEnd:                 "End",
	TagShowFrame:           "ShowFrame",
	TagDefineShape:         "DefineShape",
	TagPlaceObject:         "PlaceObject",
	TagRemoveObject:        "RemoveObject",
	TagDefineBits:          "DefineBits",
	TagDefineButton:        "DefineButton",
	TagJpegTables:          "JpegTables",
	TagSetBackgroundColor:  "SetBackgroundColor",
	TagDefineFont:          "DefineFont",
	TagDefineText:          "DefineText",
	TagDoAction:            "DoAction",
	TagDefineFontInfo:      "DefineFontInfo",
	TagDefineSound:         "DefineSound",
	TagStartSound:          "StartSound",
	TagDefineButtonSound:   "DefineButtonSound",
	TagSoundStreamHead:     "SoundStreamHead",
	TagSoundStreamBlock:    "SoundStreamBlock",
	TagDefineBitsLossless:  "DefineBitsLossless",
	TagDefineBitsJpeg2:     "DefineBitsJpeg2",
	TagDefineShape2:        "DefineShape2",
	TagDefineButtonCxform:  "DefineButtonCxform",
	TagProtect:             "Protect",
	TagPlaceObject2:        "PlaceObject2",
	TagRemoveObject2:       "RemoveObject2",
	TagDefineShape3:        "DefineShape3",
	TagDefineText2:         "DefineText2",
	TagDefineButton2:       "DefineButton2",
	TagDefineBitsJpeg3:     "DefineBitsJpeg3",
	TagDefineBitsLossless2: "DefineBitsLossless2",
	TagDefineEditText:      "DefineEditText",
	TagDefineSprite:        "DefineSprite",
	TagFrameLabel:          "FrameLabel",
	TagSoundStreamHead2:    "SoundStreamHead2",
	TagDefineMorphShape:    "DefineMorphShape",
	TagDefineFont2:         "DefineFont2",
	TagExportAssets:        "ExportAssets",
	TagImportAssets:        "ImportAssets",
	TagDoInitAction:        "DoInitAction",
	TagDefineFontInfo2:     "DefineFontInfo2",
	TagPlaceObject3:        "PlaceObject3",
	TagImportAssets2:       "ImportAssets2",
	TagDefineFont3:         "DefineFont3",
	TagDefineShape4:        "DefineShape4",
	TagDefineMorphShape2:   "DefineMorphShape2",
	TagDefineBitsJpeg4:     "DefineBitsJpeg4",
	TagDefineFont4:         "DefineFont4",
	TagPlaceObject4:        "PlaceObject4",
}
